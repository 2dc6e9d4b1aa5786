// Package cli implements the interactive credential-store console: a small
// loop that registers accounts, verifies logins (printing a session token on
// success), and deletes accounts by identifier.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/credstore/internal/auth"
	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/config"
	"github.com/dmitrijs2005/credstore/internal/logging"
	"github.com/dmitrijs2005/credstore/internal/migrations"
	"github.com/dmitrijs2005/credstore/internal/passhash"
	"github.com/dmitrijs2005/credstore/internal/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *users.SerializedService

	in  io.Reader
	out io.Writer
}

// NewApp wires the credential store from config: the hasher, the storage
// backend (PostgreSQL when a DSN is configured, in-memory otherwise), and
// the serialization boundary around the service.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	l := slog.New(slog.NewTextHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	hasher, err := passhash.NewHasher(cfg.HashParams())
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	var repo users.Repository

	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := migrations.Up(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		repo = users.NewPostgresRepository(db)
	} else {
		repo = users.NewInMemoryRepository()
	}

	svc, err := users.NewService(repo, hasher)
	if err != nil {
		return nil, fmt.Errorf("service init error: %w", err)
	}

	return &App{
		config: cfg,
		logger: logger,
		store:  users.NewSerializedService(svc),
		in:     os.Stdin,
		out:    os.Stdout,
	}, nil
}

func (app *App) Run(ctx context.Context) error {

	reader := bufio.NewReader(app.in)

	for {
		cmd, err := GetSimpleText(reader, app.out, "command (register/login/delete/exit):")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch cmd {
		case "register":
			app.register(ctx, reader)
		case "login":
			app.login(ctx, reader)
		case "delete":
			app.delete(ctx, reader)
		case "exit":
			return nil
		default:
			fmt.Fprintf(app.out, "unknown command: %s\n", cmd)
		}
	}
}

func (app *App) register(ctx context.Context, reader *bufio.Reader) {
	userName, err := GetSimpleText(reader, app.out, "-Enter username")
	if err != nil {
		app.logger.Error(ctx, "reading username", "error", err)
		return
	}

	password, err := GetPassword(app.out)
	if err != nil {
		app.logger.Error(ctx, "reading password", "error", err)
		return
	}
	defer common.WipeByteArray(password)

	user, err := app.store.Register(ctx, userName, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorUsernameExists) {
			fmt.Fprintln(app.out, "username already taken")
			return
		}
		app.logger.Error(ctx, "registration failed", "error", err)
		return
	}

	app.logger.Info(ctx, "user registered", "user_id", user.ID)
	fmt.Fprintf(app.out, "registered, id: %s\n", user.ID)
}

func (app *App) login(ctx context.Context, reader *bufio.Reader) {
	userName, err := GetSimpleText(reader, app.out, "-Enter username")
	if err != nil {
		app.logger.Error(ctx, "reading username", "error", err)
		return
	}

	password, err := GetPassword(app.out)
	if err != nil {
		app.logger.Error(ctx, "reading password", "error", err)
		return
	}
	defer common.WipeByteArray(password)

	id, err := app.store.Login(ctx, userName, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			fmt.Fprintln(app.out, "invalid username or password")
			return
		}
		app.logger.Error(ctx, "login failed", "error", err)
		return
	}

	token, err := auth.GenerateToken(id, []byte(app.config.SecretKey), app.config.TokenValidityDuration)
	if err != nil {
		app.logger.Error(ctx, "issuing token", "error", err)
		return
	}

	fmt.Fprintf(app.out, "welcome, session token: %s\n", token)
}

func (app *App) delete(ctx context.Context, reader *bufio.Reader) {
	id, err := GetSimpleText(reader, app.out, "-Enter account id")
	if err != nil {
		app.logger.Error(ctx, "reading id", "error", err)
		return
	}

	if err := app.store.Unregister(ctx, id); err != nil {
		if errors.Is(err, common.ErrorUnknownIdentifier) {
			fmt.Fprintln(app.out, "no such account")
			return
		}
		app.logger.Error(ctx, "deletion failed", "error", err)
		return
	}

	app.logger.Info(ctx, "user deleted", "user_id", id)
	fmt.Fprintln(app.out, "account deleted")
}
