package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/avdeev/lockbox/internal/client/config"
	"github.com/avdeev/lockbox/internal/client/services"
	"github.com/avdeev/lockbox/internal/client/storage"
	"github.com/avdeev/lockbox/internal/clipboardx"
	"github.com/avdeev/lockbox/internal/logging"

	_ "modernc.org/sqlite"
)

// App glues the session manager, the vault service and the recovery manager
// together behind the interactive REPL.
type App struct {
	config   *config.Config
	session  *services.SessionManager
	vault    services.VaultService
	recovery *services.RecoveryManager
	repos    *storage.Repositories
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	session := services.NewSessionManager(repos.Accounts, clipboardx.NewSystem(), logger,
		services.WithCheckInterval(c.InactivityCheckInterval))
	session.OnLock(func() {
		printlnFn("\nSession locked due to inactivity. Type 'unlock' to continue.")
	})

	vault := services.NewVaultService(repos.Entries)
	recovery := services.NewRecoveryManager(logger)

	return &App{
		config:   c,
		session:  session,
		vault:    vault,
		recovery: recovery,
		repos:    repos,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.session.Logout()
		if err := a.repos.DB.Close(); err != nil {
			log.Printf("error closing database: %s", err.Error())
		}
	}()

	fmt.Println("Welcome to Lockbox CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == services.StateAuthenticated
}

func (a *App) isLocked() bool {
	return a.session.State() == services.StateLocked
}

// touch refreshes the inactivity clock; the REPL calls it once per accepted
// command so that typing counts as activity.
func (a *App) touch() {
	a.session.UpdateActivity()
}

func (a *App) getStatus() string {
	s := a.session.CurrentAccount()
	if s != "" {
		s = fmt.Sprintf("(%s %s)", s, a.session.State())
	}
	return s
}
