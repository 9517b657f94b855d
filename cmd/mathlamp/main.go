package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/agenthands/mathlamp/pkg/config"
	"github.com/agenthands/mathlamp/pkg/session"
	"github.com/agenthands/mathlamp/pkg/shell"
	"github.com/agenthands/mathlamp/pkg/source"
)

var version = "0.1.0"

const usage = `Usage:
  mathlamp [flags] <file>
  mathlamp run <file> [flags]
  mathlamp shell [flags]
  mathlamp --shell [flags]
  mathlamp version
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	engine     string
	frontend   string
	gas        int
	configPath string
	dumpAST    bool
	verbose    bool
	shell      bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Fprintf(stdout, "mathlamp %s\n", version)
			return 0
		case "shell":
			args = append([]string{"-shell"}, args[1:]...)
		case "run":
			args = args[1:]
			if len(args) == 0 {
				fmt.Fprint(stderr, usage)
				return 1
			}
		}
	}

	opts, set, files, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	logger := log.New(io.Discard, "mathlamp: ", 0)
	if opts.verbose {
		logger.SetOutput(stderr)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Config Error: %v\n", err)
		return 1
	}
	if cfg.Path != "" {
		logger.Printf("loaded config %s", cfg.Path)
	}
	applyFlags(cfg, opts, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Config Error: %v\n", err)
		return 1
	}

	sess, err := session.New(stdout, cfg.SessionOptions())
	if err != nil {
		fmt.Fprintf(stderr, "Config Error: %v\n", err)
		return 1
	}
	logger.Printf("engine=%s frontend=%s gas=%d", cfg.Engine, cfg.Frontend, cfg.GasLimit)

	if opts.shell {
		if opts.dumpAST {
			fmt.Fprintln(stderr, "-dump-ast cannot be used with shell mode")
			fmt.Fprint(stderr, usage)
			return 1
		}
		if len(files) > 0 {
			fmt.Fprintf(stderr, "shell mode takes no file, got %s\n", strings.Join(files, " "))
			return 1
		}
		sh := shell.New(stdin, stdout, stderr, sess)
		sh.Prompt = cfg.Prompt()
		sh.Banner = cfg.Banner()
		if err := sh.Run(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if len(files) != 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}
	return runFile(files[0], cfg, sess, opts.dumpAST, logger, stdout, stderr)
}

func runFile(path string, cfg *config.Config, sess *session.Session, dumpAST bool, logger *log.Logger, stdout, stderr io.Writer) int {
	src, err := source.Load(path, cfg.MaxSourceSize)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file: %v\n", err)
		return 1
	}
	logger.Printf("read %d bytes from %s", len(src), path)

	prog, err := sess.Parse(src)
	if err != nil {
		fmt.Fprintf(stderr, "Compilation Error: %v\n", err)
		return 1
	}
	logger.Printf("parsed %d statements", len(prog.Statements))

	if dumpAST {
		if s := prog.String(); s != "" {
			fmt.Fprintln(stdout, s)
		}
		return 0
	}

	if err := sess.Exec(prog); err != nil {
		var ce *session.CompileError
		if errors.As(err, &ce) {
			fmt.Fprintf(stderr, "Compilation Error: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "Runtime Error: %v\n", err)
		}
		return 1
	}
	logger.Printf("finished with %d variables bound: %v", sess.Env().Len(), sess.Env().Snapshot())
	return 0
}

// parseFlags accepts flags both before and after the file argument.
func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, []string, error) {
	opts := &options{}
	fs := flag.NewFlagSet("mathlamp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.engine, "engine", string(session.EngineTree), "Evaluation engine: tree or vm")
	fs.StringVar(&opts.frontend, "frontend", string(session.FrontendNative), "Parser front-end: native or python")
	fs.IntVar(&opts.gas, "gas", session.DefaultGasLimit, "Maximum instruction limit for the vm engine")
	fs.StringVar(&opts.configPath, "config", "", "Path to a config file (default ./"+config.FileName+" if present)")
	fs.BoolVar(&opts.dumpAST, "dump-ast", false, "Print the parsed program instead of running it")
	fs.BoolVar(&opts.verbose, "v", false, "Log progress to stderr")
	fs.BoolVar(&opts.shell, "shell", false, "Start the interactive shell")
	fs.BoolVar(&opts.shell, "s", false, "Shorthand for -shell")

	var files []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, nil, nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		files = append(files, rest[0])
		args = rest[1:]
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, files, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cfg *config.Config, opts *options, set map[string]bool) {
	if set["engine"] {
		cfg.Engine = opts.engine
	}
	if set["frontend"] {
		cfg.Frontend = opts.frontend
	}
	if set["gas"] {
		cfg.GasLimit = opts.gas
	}
}
