package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrymomot/authenticator/pkg/board"
	"github.com/dmitrymomot/authenticator/pkg/logger"
	"github.com/dmitrymomot/authenticator/pkg/qrcode"
	"github.com/dmitrymomot/authenticator/pkg/totp"
	"github.com/dmitrymomot/authenticator/pkg/vault"
)

var errUsage = errors.New("invalid usage")

const clearScreen = "\033[H\033[2J"

const usageText = `Usage: authenticator <command> [flags] [args]

Commands:
  code   [-digits n] [-period s] <secret>   print the current code for a Base32 secret
  list   [-tag t]                           print every account with its current code
  watch  [-tag t] [-interval d]             live board, refreshed every second
  add    -secret s [-label l] [-issuer i] [-tags a,b]
  remove <ref>                              remove an account (ID, ID prefix or label)
  move   <ref> <position>                   move an account to a 1-based position
  tags                                      list all tags
  import [-format json|yaml] <file>         import a backup
  export [-format json|yaml] [file]         write a backup to file or stdout
  qr     [-png file] [-size px] [-uri] <ref> show an account as a QR code
  secret                                    generate a new random secret
  keygen                                    generate a value for AUTHENTICATOR_MASTER_KEY
`

// app holds everything a command needs. The vault is opened lazily so that
// commands working on raw secrets never touch storage.
type app struct {
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
	now    func() time.Time
	open   func(ctx context.Context) (*vault.Vault, error)
	health func(ctx context.Context) error // set by open for remote storage
	shared bool                           // storage is shared with other processes; watch reloads it every tick
}

type commandKey struct{}

func withCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey{}, name)
}

// commandExtractor adds the running subcommand to every record logged with
// the command's context.
func commandExtractor(ctx context.Context) (slog.Attr, bool) {
	name, ok := ctx.Value(commandKey{}).(string)
	if !ok || name == "" {
		return slog.Attr{}, false
	}
	return logger.Command(name), true
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("%w: missing command", errUsage)
	}

	name, rest := args[0], args[1:]
	ctx = withCommand(ctx, name)

	commands := map[string]func(context.Context, []string) error{
		"code":   a.cmdCode,
		"list":   a.cmdList,
		"watch":  a.cmdWatch,
		"add":    a.cmdAdd,
		"remove": a.cmdRemove,
		"move":   a.cmdMove,
		"tags":   a.cmdTags,
		"import": a.cmdImport,
		"export": a.cmdExport,
		"qr":     a.cmdQR,
		"secret": a.cmdSecret,
		"keygen": a.cmdKeygen,
	}

	switch name {
	case "help", "-h", "-help", "--help":
		a.usage()
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	return cmd(ctx, rest)
}

func (a *app) usage() {
	fmt.Fprint(a.errOut, usageText)
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parse returns flag.ErrHelp untouched so callers can treat -h as success.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errors.Join(errUsage, err)
	}
	return nil
}

func (a *app) cmdCode(ctx context.Context, args []string) error {
	fs := a.flags("code")
	digits := fs.Int("digits", totp.DefaultDigits, "number of digits")
	period := fs.Int("period", totp.DefaultPeriod, "time step in seconds")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: code <secret>", errUsage)
	}

	// Secrets are often copied in space-separated groups.
	secret := strings.Join(fs.Args(), " ")
	code, err := totp.GenerateCode(secret, a.now().Unix(), totp.WithDigits(*digits), totp.WithPeriod(*period))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "%s  %ds\n", board.Group(code.Value), code.Remaining)
	return err
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := a.flags("list")
	tag := fs.String("tag", "", "only show accounts with this tag")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}

	v, err := a.open(ctx)
	if err != nil {
		return err
	}

	accounts := v.List()
	if *tag != "" {
		accounts = v.Filter(*tag)
	}
	return a.printBoard(ctx, board.Snapshot(ctx, accounts, a.now()))
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	fs := a.flags("watch")
	tag := fs.String("tag", "", "only show accounts with this tag")
	interval := fs.Duration("interval", board.DefaultInterval, "refresh interval")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}

	v, err := a.open(ctx)
	if err != nil {
		return err
	}
	if a.health != nil {
		if err := a.health(ctx); err != nil {
			return err
		}
	}

	return board.Watch(ctx, board.VaultSource(v, a.shared, *tag), func(entries []board.Entry) {
		fmt.Fprint(a.out, clearScreen)
		if err := a.printBoard(ctx, entries); err != nil {
			a.log.WarnContext(ctx, "render board", logger.Error(err))
		}
	},
		board.WithInterval(*interval),
		board.WithClock(a.now),
		board.WithLogger(a.log),
	)
}

func (a *app) printBoard(ctx context.Context, entries []board.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(a.out, "no accounts")
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tISSUER\tLABEL\tCODE\tLEFT\tTAGS")
	for i, e := range entries {
		if e.Err != nil {
			a.log.DebugContext(ctx, "no code for account", logger.AccountID(e.Account.ID), logger.Error(e.Err))
		}
		left := strconv.Itoa(e.Remaining) + "s"
		if e.Expiring {
			left += " !"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			shortID(e.Account),
			e.Account.Issuer,
			e.Account.Label,
			e.Display(),
			left,
			strings.Join(e.Account.Tags, ","),
		)
	}
	return w.Flush()
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := a.flags("add")
	secret := fs.String("secret", "", "Base32 secret (may also be given as arguments)")
	label := fs.String("label", "", "account label")
	issuer := fs.String("issuer", "", "issuer name")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}
	if *secret == "" {
		*secret = strings.Join(fs.Args(), " ")
	}

	v, err := a.open(ctx)
	if err != nil {
		return err
	}

	acc, err := v.Add(ctx, vault.Account{
		Secret: *secret,
		Label:  *label,
		Issuer: *issuer,
		Tags:   splitTags(*tags),
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "added %s %s (%s)\n", shortID(acc), acc.Label, acc.Issuer)
	return err
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	v, acc, err := a.resolve(ctx, "remove", args)
	if err != nil {
		return err
	}
	if err := v.Remove(ctx, acc.ID); err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "removed %s %s\n", shortID(acc), acc.Label)
	return err
}

func (a *app) cmdMove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: move <ref> <position>", errUsage)
	}
	pos, err := strconv.Atoi(args[1])
	if err != nil || pos < 1 {
		return fmt.Errorf("%w: position must be a number starting at 1", errUsage)
	}

	v, acc, err := a.resolve(ctx, "move", args[:1])
	if err != nil {
		return err
	}
	return v.Move(ctx, acc.ID, pos-1)
}

func (a *app) cmdTags(ctx context.Context, args []string) error {
	v, err := a.open(ctx)
	if err != nil {
		return err
	}
	for _, tag := range v.Tags() {
		if _, err := fmt.Fprintln(a.out, tag); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	fs := a.flags("import")
	formatName := fs.String("format", "", "json or yaml (default: from the file extension)")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import <file>", errUsage)
	}
	path := fs.Arg(0)

	format, err := formatFor(*formatName, path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	v, err := a.open(ctx)
	if err != nil {
		return err
	}

	n, err := v.ImportFrom(ctx, f, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "imported %d account(s)\n", n)
	return err
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := a.flags("export")
	formatName := fs.String("format", "", "json or yaml (default: from the file extension, else json)")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}
	path := fs.Arg(0)

	format, err := formatFor(*formatName, path)
	if err != nil {
		return err
	}

	v, err := a.open(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := v.Export(&buf, format, a.now()); err != nil {
		return err
	}

	if path == "" {
		_, err = a.out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return err
	}
	a.log.InfoContext(ctx, "backup written", logger.Count(v.Len()), slog.String("path", path))
	return nil
}

func (a *app) cmdQR(ctx context.Context, args []string) error {
	fs := a.flags("qr")
	pngPath := fs.String("png", "", "write a PNG image to this file instead of printing")
	size := fs.Int("size", 256, "PNG size in pixels")
	inverse := fs.Bool("inverse", false, "invert colors for light terminals")
	printURI := fs.Bool("uri", false, "also print the otpauth:// URI")
	if err := parse(fs, args); err != nil {
		return ignoreHelp(err)
	}

	_, acc, err := a.resolve(ctx, "qr", fs.Args())
	if err != nil {
		return err
	}

	uri, err := totp.URI(totp.URIParams{
		Secret:      acc.Secret,
		AccountName: acc.Label,
		Issuer:      acc.Issuer,
	})
	if err != nil {
		return err
	}

	if *pngPath != "" {
		img, err := qrcode.Generate(uri, *size)
		if err != nil {
			return err
		}
		return os.WriteFile(*pngPath, img, 0o600)
	}

	art, err := qrcode.Terminal(uri, *inverse)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(a.out, art); err != nil {
		return err
	}
	if *printURI {
		_, err = fmt.Fprintln(a.out, uri)
	}
	return err
}

func (a *app) cmdSecret(ctx context.Context, args []string) error {
	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, secret)
	return err
}

func (a *app) cmdKeygen(ctx context.Context, args []string) error {
	key, err := vault.GenerateEncodedKey()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, key)
	return err
}

// resolve opens the vault and looks up the single account reference in args.
func (a *app) resolve(ctx context.Context, cmd string, args []string) (*vault.Vault, vault.Account, error) {
	if len(args) != 1 {
		return nil, vault.Account{}, fmt.Errorf("%w: %s <ref>", errUsage, cmd)
	}
	v, err := a.open(ctx)
	if err != nil {
		return nil, vault.Account{}, err
	}
	acc, err := v.Find(args[0])
	if err != nil {
		return nil, vault.Account{}, fmt.Errorf("%q: %w", args[0], err)
	}
	return v, acc, nil
}

func ignoreHelp(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func formatFor(name, path string) (vault.Format, error) {
	if name != "" {
		return vault.ParseFormat(name)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return vault.FormatYAML, nil
	default:
		return vault.FormatJSON, nil
	}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func shortID(acc vault.Account) string {
	return acc.ID.String()[:8]
}
