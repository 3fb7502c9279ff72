// Command signin signs in to the alumni API from a terminal and keeps the
// access token in the dashboard database under the "cli" scope.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/anndream/diucse-alumni-admin/internal/auth"
	"github.com/anndream/diucse-alumni-admin/internal/config"
	"github.com/anndream/diucse-alumni-admin/internal/db"
	"github.com/anndream/diucse-alumni-admin/internal/logger"
	"github.com/anndream/diucse-alumni-admin/internal/repository"
)

const scope = "cli"

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("212"))
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	username := flag.String("u", "", "username or email")
	signout := flag.Bool("signout", false, "forget the stored token")
	forgot := flag.String("forgot", "", "request a password reset for this email")
	flag.Parse()

	_ = godotenv.Load()
	if err := config.LoadConfig(*configPath); err != nil {
		fail(err.Error())
	}
	cfg := config.AppConfig
	config.ApplyEnv(cfg)

	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	db.SetLogger(l)
	repository.SetLogger(l)
	auth.SetLogger(l)

	database := db.NewSQLite(cfg.Storage.DatabasePath)
	if err := database.InitDB(); err != nil {
		fail(fmt.Sprintf(config.ErrInitializeDatabaseFmt, err))
	}
	defer database.Close()

	tokens := repository.NewDBKVRepository(database)
	client := auth.NewClient(cfg.Auth.APIURL, cfg.Auth.Timeout)
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	switch {
	case *signout:
		if err := tokens.Delete(ctx, scope, cfg.Auth.TokenKey); err != nil {
			fail(err.Error())
		}
		fmt.Println(okStyle.Render("Signed out"))
	case *forgot != "":
		user := *username
		if user == "" {
			user = prompt(in, "Username: ")
		}
		resp, err := client.ForgotPassword(ctx, user, *forgot)
		var apiErr *auth.APIError
		switch {
		case err == nil:
			fmt.Println(okStyle.Render(resp.Message))
		case errors.As(err, &apiErr) && apiErr.Message != "":
			fail(apiErr.Message)
		case errors.As(err, &apiErr):
			fail(config.ErrGenericRequest)
		default:
			fail(config.ErrFailedToSend)
		}
	default:
		user := *username
		if user == "" {
			user = prompt(in, "Username or Email: ")
		}
		password := prompt(in, "Password: ")

		if errs := auth.ValidateSignin(user, password); len(errs) > 0 {
			lines := make([]string, len(errs))
			for i, e := range errs {
				lines[i] = e.Message
			}
			fail(strings.Join(lines, "\n"))
		}

		resp, err := client.Login(ctx, user, password)
		if err != nil {
			var apiErr *auth.APIError
			if errors.As(err, &apiErr) {
				msg := apiErr.Message
				if msg == "" {
					msg = config.ErrLoginFailed
				}
				fail(msg)
			}
			fail(config.ErrSomethingWrong)
		}
		if err := tokens.Set(ctx, scope, cfg.Auth.TokenKey, resp.AccessToken); err != nil {
			fail(err.Error())
		}
		fmt.Println(boxStyle.Render(okStyle.Render(config.MsgLoginSuccessful) + "\nToken stored in " + cfg.Storage.DatabasePath))
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(promptStyle.Render(label))
	if !in.Scan() {
		fail("no input")
	}
	return strings.TrimSpace(in.Text())
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, errStyle.Render(msg))
	os.Exit(1)
}
