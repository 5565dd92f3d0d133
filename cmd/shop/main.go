package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront/internal/app"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func main() {
	var opts options
	cmds := flag.String("cmd", "catalog", "comma separated commands: signin|signup|reset|signout|catalog|cart|add|inc|dec|rm|favorites|fav|orders|repeat|profile|checkout")
	sessionID := flag.String("session", os.Getenv("STOREFRONT_SESSION_ID"), "stored session id from a previous signin")
	flag.StringVar(&opts.Name, "name", "", "display name for signup")
	flag.StringVar(&opts.Email, "email", "", "account or contact email")
	flag.StringVar(&opts.Password, "password", "", "account password")
	flag.StringVar(&opts.Product, "product", "", "product id")
	flag.IntVar(&opts.Quantity, "qty", 1, "quantity to add")
	flag.StringVar(&opts.Line, "line", "", "cart line id")
	flag.Int64Var(&opts.Order, "order", 0, "order id to repeat")
	flag.StringVar(&opts.Category, "category", "", "category id filter")
	flag.StringVar(&opts.Query, "q", "", "title search")
	flag.StringVar(&opts.Firstname, "firstname", "", "profile first name")
	flag.StringVar(&opts.Lastname, "lastname", "", "profile last name")
	flag.StringVar(&opts.Phone, "phone", "", "profile or checkout phone")
	flag.StringVar(&opts.Address, "address", "", "profile or checkout address")
	flag.StringVar(&opts.Card, "card", "", "card number for checkout")
	flag.BoolVar(&opts.JSON, "json", false, "print state as json")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "shop", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shop",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	ctx := context.Background()
	rt, err := app.Open(ctx, cfg, logg, nil)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap services", err)
		os.Exit(1)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logg.Error(ctx, "error closing clients", err)
		}
	}()

	sh := newShell(rt.Services, rt.Sessions, rt.Toggles, logg, os.Stdout, opts)
	if !cfg.Session.UsesRedis() {
		sh.ephemeral = true
	}
	if id := strings.TrimSpace(*sessionID); id != "" {
		if err := sh.resume(ctx, id); err != nil {
			fmt.Fprintln(os.Stderr, pkgerrors.Display(err))
			os.Exit(1)
		}
	}

	for _, name := range strings.Split(*cmds, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := sh.run(ctx, name); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, pkgerrors.Display(err))
			os.Exit(1)
		}
	}
}
