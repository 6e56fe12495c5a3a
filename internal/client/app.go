// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-duct-tape/internal/adapter"
	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/tui"
	"github.com/MKhiriev/go-duct-tape/models"
)

// PickFunc runs the interactive picker, see [tui.Pick].
type PickFunc func(ctx context.Context, title string, source tui.ChoiceSource, copyValue bool) (*models.Choice, error)

type App struct {
	auth      adapter.AuthAdapter
	resources map[string]Resource
	cfg       config.ClientConfig
	pick      PickFunc

	out    io.Writer
	logger *logger.Logger
}

// NewApp returns the client writing its output to out.
func NewApp(auth adapter.AuthAdapter, resources map[string]Resource, cfg config.ClientConfig, pick PickFunc, out io.Writer, logger *logger.Logger) *App {
	if pick == nil {
		pick = tui.Pick
	}
	return &App{
		auth:      auth,
		resources: resources,
		cfg:       cfg,
		pick:      pick,
		out:       out,
		logger:    logger,
	}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	command, args := args[0], args[1:]
	a.logger.Debug().Str("command", command).Strs("args", args).Msg("running command")

	switch command {
	case "register", "login":
		return a.authenticate(ctx, command, args)
	case "list", "get", "create", "update", "delete", "pick":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	if len(args) == 0 {
		return ErrUsage
	}
	res, ok := a.resources[args[0]]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownResource, args[0])
	}
	name, args := args[0], args[1:]

	if err := a.ensureLoggedIn(ctx); err != nil {
		return err
	}

	switch command {
	case "list":
		return a.list(ctx, name, res, args)
	case "get":
		return a.get(ctx, res, args)
	case "create":
		return a.create(ctx, res, args)
	case "update":
		return a.update(ctx, res, args)
	case "delete":
		return a.delete(ctx, res, args)
	default:
		return a.pickOne(ctx, name, res, args)
	}
}

func (a *App) authenticate(ctx context.Context, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	login := fs.String("login", a.cfg.Login, "user login")
	password := fs.String("password", a.cfg.Password, "user password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	user := models.User{Login: *login, Password: *password}
	if user.Login == "" || user.Password == "" {
		return ErrNoCredentials
	}

	authFunc := a.auth.Login
	if command == "register" {
		authFunc = a.auth.Register
	}
	token, err := authFunc(ctx, user)
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	fmt.Fprintf(a.out, "user %d authenticated\n", token.UserID)
	fmt.Fprintln(a.out, token.SignedString)
	return nil
}

func (a *App) ensureLoggedIn(ctx context.Context) error {
	if a.auth.Token() != "" {
		return nil
	}
	if a.cfg.Login == "" || a.cfg.Password == "" {
		return ErrNoCredentials
	}
	if _, err := a.auth.Login(ctx, models.User{Login: a.cfg.Login, Password: a.cfg.Password}); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

func (a *App) list(ctx context.Context, name string, res Resource, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		opts   adapter.ListOptions
		filter = assignments{}
		sorts  sortFlag
	)
	fs.StringVar(&opts.Term, "term", "", "full-text search term")
	fs.Var(filter, "filter", "col=value, repeatable")
	fs.Var(&sorts, "sort", "column, prefixed with - for descending, repeatable")
	fs.IntVar(&opts.Limit, "limit", 0, "page size")
	fs.IntVar(&opts.Page, "page", 0, "1-based page")
	fs.IntVar(&opts.Start, "start", 0, "row offset")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if len(filter) > 0 {
		opts.Filter = filter
	}
	opts.Sort = sorts

	total, rows, err := res.list(ctx, opts)
	if errors.Is(err, adapter.ErrNotFound) {
		fmt.Fprintf(a.out, "no %s found\n", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("list %s: %w", name, err)
	}

	caption := fmt.Sprintf("%s: %d of %d", name, len(rows), total)
	fmt.Fprintln(a.out, tui.Table(res.meta, rows, caption))
	return nil
}

func (a *App) get(ctx context.Context, res Resource, args []string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}

	row, err := res.get(ctx, id)
	if err != nil {
		return fmt.Errorf("get %d: %w", id, err)
	}
	return a.printRow(res, row)
}

func (a *App) create(ctx context.Context, res Resource, args []string) error {
	attrs, err := parseAssignments(args)
	if err != nil {
		return err
	}

	row, err := res.create(ctx, attrs)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return a.printRow(res, row)
}

func (a *App) update(ctx context.Context, res Resource, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	attrs, err := parseAssignments(rest)
	if err != nil {
		return err
	}

	row, err := res.update(ctx, id, attrs)
	if err != nil {
		return fmt.Errorf("update %d: %w", id, err)
	}
	return a.printRow(res, row)
}

func (a *App) delete(ctx context.Context, res Resource, args []string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}

	if err = res.delete(ctx, id); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	fmt.Fprintf(a.out, "%s %d deleted\n", strings.ToLower(res.meta.Name), id)
	return nil
}

func (a *App) pickOne(ctx context.Context, name string, res Resource, args []string) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	copyValue := fs.Bool("copy", false, "copy the picked id to the clipboard")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("pick: %w", err)
	}

	choice, err := a.pick(ctx, "Pick "+name, res.autocomplete, *copyValue)
	if err != nil {
		return err
	}
	if choice == nil {
		return nil
	}

	fmt.Fprintf(a.out, "%v\t%s\n", choice.Value, choice.Label)
	return nil
}

func (a *App) printRow(res Resource, row models.Model) error {
	fmt.Fprintln(a.out, tui.Table(res.meta, []models.Model{row}, ""))
	return nil
}

func parseID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrInvalidID
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidID, args[0])
	}
	return id, args[1:], nil
}

func parseAssignments(args []string) (map[string]any, error) {
	attrs := assignments{}
	for _, arg := range args {
		if err := attrs.Set(arg); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

// assignments collects col=value arguments. Values stay strings; the server
// coerces them to the column type.
type assignments map[string]any

func (a assignments) String() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, a[k])
	}
	return strings.Join(pairs, " ")
}

func (a assignments) Set(value string) error {
	col, v, ok := strings.Cut(value, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAssign, value)
	}
	a[col] = v
	return nil
}

type sortFlag []models.SortSpec

func (s *sortFlag) String() string {
	parts := make([]string, len(*s))
	for i, spec := range *s {
		parts[i] = spec.Property
		if spec.Direction == models.SortDesc {
			parts[i] = "-" + parts[i]
		}
	}
	return strings.Join(parts, ",")
}

func (s *sortFlag) Set(value string) error {
	spec := models.SortSpec{Property: value, Direction: models.SortAsc}
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		spec = models.SortSpec{Property: rest, Direction: models.SortDesc}
	}
	if spec.Property == "" {
		return fmt.Errorf("empty sort column")
	}
	*s = append(*s, spec)
	return nil
}
