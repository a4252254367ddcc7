package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/internal/repository"
	"github.com/audlex/audlex-api/internal/service"
	"github.com/audlex/audlex-api/pkg/config"
	"github.com/audlex/audlex-api/pkg/database"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/logger"
)

type prompter interface {
	Line(prompt string) (string, error)
	Password(prompt string) (string, error)
}

type registrar interface {
	Register(ctx context.Context, req service.RegisterUserRequest) (*models.UserInfo, error)
}

type readlinePrompter struct {
	rl *readline.Instance
}

func (p readlinePrompter) Line(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	return p.rl.Readline()
}

func (p readlinePrompter) Password(prompt string) (string, error) {
	raw, err := p.rl.ReadPassword(prompt)
	return string(raw), err
}

var errPasswordMismatch = errors.New("passwords do not match")

// collect prompts for the new account. Name and level are validated again by
// the user service.
func collect(p prompter) (service.RegisterUserRequest, error) {
	var req service.RegisterUserRequest

	name, err := p.Line("Nombre de usuario: ")
	if err != nil {
		return req, err
	}
	password, err := p.Password("Contraseña: ")
	if err != nil {
		return req, err
	}
	confirm, err := p.Password("Confirmar contraseña: ")
	if err != nil {
		return req, err
	}
	if password != confirm {
		return req, errPasswordMismatch
	}
	rawLevel, err := p.Line(fmt.Sprintf("Nivel de usuario (%d-%d): ", models.LevelStaff, models.MaxLevel))
	if err != nil {
		return req, err
	}
	level, err := strconv.Atoi(strings.TrimSpace(rawLevel))
	if err != nil {
		return req, fmt.Errorf("invalid level %q: must be an integer", strings.TrimSpace(rawLevel))
	}

	return service.RegisterUserRequest{Name: strings.TrimSpace(name), Password: password, Level: level}, nil
}

func run(ctx context.Context, p prompter, users registrar) (*models.UserInfo, error) {
	req, err := collect(p)
	if err != nil {
		return nil, err
	}
	return users.Register(ctx, req)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	rl, err := readline.NewEx(&readline.Config{InterruptPrompt: "^C", EOFPrompt: "exit"})
	if err != nil {
		log.Fatalf("failed to initialize readline: %v", err)
	}
	defer rl.Close()

	fmt.Println("=== AudLex: Registro de Usuarios ===")
	users := service.NewUserService(repository.NewUserRepository(db), nil, logr, nil)
	info, err := run(ctx, readlinePrompter{rl: rl}, users)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] %s\n", describe(err))
		os.Exit(1)
	}
	fmt.Printf("Usuario '%s' registrado exitosamente (nivel %d).\n", info.Name, info.Level)
}

func describe(err error) string {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
