// Command passvault is an interactive shell over the encrypted credential
// vault. It owns all terminal interaction; the vault core stays free of
// presentation concerns.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	sqliteadapter "github.com/ericfisherdev/passvault/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/config"
	"github.com/ericfisherdev/passvault/internal/crypto"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded", "db_path", cfg.DBPath, "kdf_iterations", cfg.KDFIterations)

	// 2. Resolve the master passphrase: env var, interactive prompt, or the
	// legacy default for vaults created before it was configurable.
	stdin := bufio.NewScanner(os.Stdin)

	passphrase := cfg.MasterPassphrase
	if passphrase == "" {
		passphrase, err = promptSecret(stdin, "Master passphrase (empty for default): ")
		if err != nil {
			return err
		}
	}
	if passphrase == "" {
		slog.Warn("using default master passphrase; set PASSVAULT_MASTER_KEY")
		passphrase = crypto.DefaultPassphrase
	}

	// 3. Derive the vault key. Deliberately slow.
	start := time.Now()
	cipher, err := crypto.NewCipher(passphrase, nil, cfg.KDFIterations)
	if err != nil {
		return err
	}
	slog.Info("vault key derived", "took", time.Since(start))

	// 4. Open database and run migrations.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// 5. Wire the vault and hand off to the shell.
	vault := application.New(sqliteadapter.NewUserRepo(db), sqliteadapter.NewEntryRepo(db), cipher)
	return shell(context.Background(), vault, stdin)
}

// shell reads commands from scanner until quit or EOF.
func shell(ctx context.Context, vault *application.Vault, scanner *bufio.Scanner) error {
	fmt.Println(`passvault: type "help" for commands`)

	for {
		fmt.Printf("%s> ", vault.CurrentUser())
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "register":
			email := prompt(scanner, "email: ")
			password, err := promptSecret(scanner, "password: ")
			if err != nil {
				return err
			}
			_, msg := vault.Register(ctx, email, password)
			fmt.Println(msg)
		case "login":
			email := prompt(scanner, "email: ")
			password, err := promptSecret(scanner, "password: ")
			if err != nil {
				return err
			}
			_, msg := vault.Login(ctx, email, password)
			fmt.Println(msg)
		case "logout":
			vault.Logout()
			fmt.Println("logged out")
		case "add":
			name := prompt(scanner, "name: ")
			account := prompt(scanner, "account: ")
			secret, err := promptSecret(scanner, "secret: ")
			if err != nil {
				return err
			}
			url := prompt(scanner, "url (optional): ")
			report(vault.AddEntry(ctx, name, account, secret, url))
		case "list":
			printEntries(vault.ListEntries(ctx))
		case "find":
			mode := model.SortCustom
			search := strings.Join(args, " ")
			printEntries(vault.Query(ctx, mode, search))
		case "sort":
			if len(args) != 1 {
				fmt.Println("usage: sort custom|alphabetical_asc|alphabetical_desc|frequently_used")
				continue
			}
			printEntries(vault.Query(ctx, model.SortMode(args[0]), ""))
		case "update":
			pos, ok := parsePos(args)
			if !ok {
				continue
			}
			name := prompt(scanner, "name: ")
			account := prompt(scanner, "account: ")
			secret, err := promptSecret(scanner, "secret: ")
			if err != nil {
				return err
			}
			url := prompt(scanner, "url (optional): ")
			report(vault.UpdateEntry(ctx, pos, name, account, secret, url))
		case "delete":
			pos, ok := parsePos(args)
			if !ok {
				continue
			}
			report(vault.DeleteEntry(ctx, pos))
		case "wipe":
			if prompt(scanner, "delete ALL entries? type yes: ") == "yes" {
				report(vault.DeleteAll(ctx))
			}
		case "up":
			pos, ok := parsePos(args)
			if !ok {
				continue
			}
			report(vault.MoveUp(ctx, pos))
		case "down":
			pos, ok := parsePos(args)
			if !ok {
				continue
			}
			report(vault.MoveDown(ctx, pos))
		case "copy":
			pos, ok := parsePos(args)
			if !ok {
				continue
			}
			views := vault.ListEntries(ctx)
			if pos < 0 || pos >= len(views) {
				fmt.Println("no such entry")
				continue
			}
			if views[pos].SecretUnreadable {
				fmt.Println("secret unreadable (wrong master passphrase or corrupt data)")
				continue
			}
			fmt.Println(views[pos].Secret)
			vault.IncrementUsage(ctx, pos)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Print(`commands:
  register            create an account
  login / logout      open or close a session
  add                 store a new entry
  list                show entries in custom order
  find <text>         search entries
  sort <mode>         list sorted: custom, alphabetical_asc, alphabetical_desc, frequently_used
  update <n>          rewrite entry at position n
  delete <n>          remove entry at position n
  wipe                remove every entry
  up <n> / down <n>   reorder entry at position n
  copy <n>            print a secret and count the use
  quit
`)
}

func printEntries(views []application.EntryView) {
	if len(views) == 0 {
		fmt.Println("(no entries)")
		return
	}
	for i, v := range views {
		secret := strings.Repeat("*", 8)
		if v.SecretUnreadable {
			secret = "(unreadable)"
		}
		fmt.Printf("%3d  %-20s %-20s %-10s %s\n", i, v.Name, v.Account, secret, v.URL)
	}
}

func report(ok bool) {
	if ok {
		fmt.Println("ok")
	} else {
		fmt.Println("failed")
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return scanner.Text()
}

// promptSecret reads a line without echo when stdin is a terminal, falling
// back to the shared line scanner when it is not (pipes, tests). The shell
// and this prompt must not buffer stdin independently, hence the shared
// scanner.
func promptSecret(scanner *bufio.Scanner, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return string(raw), nil
	}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return "", nil
	}
	return scanner.Text(), nil
}

func parsePos(args []string) (int, bool) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <position>")
		return 0, false
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid position %q\n", args[0])
		return 0, false
	}
	return pos, true
}
