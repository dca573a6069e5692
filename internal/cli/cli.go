package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloud-filemanager/go/internal/cloud"
	"github.com/cloud-filemanager/go/internal/config"
	"github.com/cloud-filemanager/go/internal/jsonoutput"
	"github.com/cloud-filemanager/go/internal/scanner"
	"github.com/cloud-filemanager/go/internal/tui"
	"github.com/cloud-filemanager/go/internal/types"
	"github.com/cloud-filemanager/go/internal/ui"
	"github.com/fishy/errbatch"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries the options and the opened backend of one invocation
type app struct {
	opts     types.Options
	out      io.Writer
	manager  cloud.Manager
	registry *prometheus.Registry
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cloud-filemanager",
		Short: "Upload, download, delete and list files in cloud storage",
		Long: `Upload, download, delete and list files in cloud storage.

The backend and its credentials are read from a YAML configuration file.
Values tagged !ENV are expanded from the environment, for example:

  cloudstore:
    - type: dropbox
      config:
        api_key: !ENV ${DROPBOX_API_KEY}`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), a.opts.Verbose)
			a.out = cmd.OutOrStdout()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.ConfigFile, "config", "c", config.DefaultPath(), "Path to the YAML configuration file")
	flags.StringVarP(&a.opts.Backend, "backend", "b", "", "Backend type to use (default: first cloudstore entry)")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&a.opts.Json, "json", false, "Output results in JSON format instead of human-readable text")
	flags.StringVar(&a.opts.MetricsFile, "metrics-file", "", "Write operation metrics to this file in Prometheus text format")

	rmCmd := &cobra.Command{
		Use:   "rm REMOTE...",
		Short: "Delete remote files or folders",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runRm,
	}
	rmCmd.Flags().BoolVarP(&a.opts.Force, "force", "f", false, "Ignore paths that do not exist")

	uploadCmd := &cobra.Command{
		Use:   "upload LOCAL... REMOTE",
		Short: "Upload local files, overwriting the remote copy",
		Long: `Upload local files, overwriting the remote copy.

With one LOCAL file, REMOTE is the destination file unless it ends with "/".
With several, REMOTE is the destination folder. With --recursive, a LOCAL
directory is uploaded to REMOTE/<directory name>, keeping its layout.`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.runUpload,
	}
	uploadCmd.Flags().BoolVarP(&a.opts.Recursive, "recursive", "r", false, "Upload directories and their contents")
	uploadCmd.Flags().IntVar(&a.opts.MaxDepth, "max-depth", 0, "Maximum directory depth to upload with --recursive (default: unlimited)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "ls [REMOTE]",
			Short: "List the contents of a remote folder",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runLs,
		},
		uploadCmd,
		&cobra.Command{
			Use:   "download REMOTE LOCAL",
			Short: "Download a remote file",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runDownload,
		},
		rmCmd,
	)

	return rootCmd
}

// Execute runs the command line
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Logger()
}

// open loads the configuration and connects to the selected backend
func (a *app) open() error {
	cfg, err := config.Load(a.opts.ConfigFile)
	if err != nil {
		return err
	}

	bc, err := cfg.Backend(a.opts.Backend)
	if err != nil {
		return err
	}

	m, err := cloud.New(bc)
	if err != nil {
		return err
	}

	if a.opts.MetricsFile != "" {
		a.registry = prometheus.NewRegistry()
		metrics, err := cloud.NewMetrics(a.registry)
		if err != nil {
			return err
		}
		m = cloud.Instrument(m, metrics)
	}

	log.Debug().Str("config", cfg.Source()).Str("backend", m.Name()).Msg("Backend ready")
	a.manager = m
	return nil
}

// close writes the metrics file, if requested
func (a *app) close() error {
	if a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.opts.MetricsFile, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	log.Debug().Str("path", a.opts.MetricsFile).Msg("Metrics written")
	return nil
}

func (a *app) printer() *ui.Printer {
	return ui.NewPrinter(a.out, a.opts.Verbose, a.opts.Json)
}

func (a *app) runLs(cmd *cobra.Command, args []string) error {
	remote := ""
	if len(args) == 1 {
		remote = args[0]
	}

	if err := a.open(); err != nil {
		return err
	}

	listing, err := a.manager.Ls(remote)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	display, _ := cloud.CleanPath(remote)
	if a.opts.Json {
		s, err := jsonoutput.ToJSON(jsonoutput.FromListing(a.manager.Name(), display, listing))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, s)
		return nil
	}

	p := a.printer()
	p.Banner(a.manager.Name(), a.opts.ConfigFile)
	p.PrintListing(display, listing)
	return nil
}

func (a *app) runUpload(cmd *cobra.Command, args []string) error {
	locals, remote := args[:len(args)-1], args[len(args)-1]
	intoFolder := len(locals) > 1 || a.opts.Recursive || strings.HasSuffix(remote, "/")

	if err := a.open(); err != nil {
		return err
	}

	folder := strings.TrimRight(remote, "/")
	if folder == "." {
		folder = ""
	}
	var tasks []tui.Task
	for _, local := range locals {
		if a.opts.Recursive {
			if info, err := os.Stat(local); err == nil && info.IsDir() {
				dirTasks, err := a.uploadDirTasks(local, folder+"/"+filepath.Base(filepath.Clean(local)))
				if err != nil {
					return err
				}
				tasks = append(tasks, dirTasks...)
				continue
			}
		}

		target := remote
		if intoFolder {
			target = folder + "/" + filepath.Base(local)
		}
		tasks = append(tasks, a.uploadTask(local, target))
	}

	return a.runTasks("Uploading", tasks)
}

// uploadDirTasks creates one upload task per file below dir
func (a *app) uploadDirTasks(dir, remote string) ([]tui.Task, error) {
	s, err := scanner.New(dir, a.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	files, err := s.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	tasks := make([]tui.Task, 0, len(files))
	for _, f := range files {
		tasks = append(tasks, a.uploadTask(f.Path, remote+"/"+f.Rel))
	}
	return tasks, nil
}

func (a *app) uploadTask(local, remote string) tui.Task {
	return tui.Task{
		Label: fmt.Sprintf("upload %s → %s", local, remote),
		Run: func() (types.OperationResult, error) {
			result := types.OperationResult{Op: "upload", Remote: remote, Local: local}

			content, err := os.ReadFile(local)
			if err == nil {
				err = a.manager.UploadFile(content, remote)
			}
			if err != nil {
				result.Error = err.Error()
				return result, err
			}

			result.Bytes = int64(len(content))
			log.Debug().Str("local", local).Str("remote", remote).Int64("bytes", result.Bytes).Msg("Uploaded")
			return result, nil
		},
	}
}

func (a *app) runDownload(cmd *cobra.Command, args []string) error {
	remote, local := args[0], args[1]
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		local = filepath.Join(local, cloud.BaseName(remote))
	}

	if err := a.open(); err != nil {
		return err
	}

	return a.runTasks("Downloading", []tui.Task{a.downloadTask(remote, local)})
}

func (a *app) downloadTask(remote, local string) tui.Task {
	return tui.Task{
		Label: fmt.Sprintf("download %s → %s", remote, local),
		Run: func() (types.OperationResult, error) {
			result := types.OperationResult{Op: "download", Remote: remote, Local: local}

			if err := a.manager.DownloadFile(remote, local); err != nil {
				result.Error = err.Error()
				return result, err
			}

			if info, err := os.Stat(local); err == nil {
				result.Bytes = info.Size()
			}
			log.Debug().Str("remote", remote).Str("local", local).Int64("bytes", result.Bytes).Msg("Downloaded")
			return result, nil
		},
	}
}

func (a *app) runRm(cmd *cobra.Command, args []string) error {
	if err := a.open(); err != nil {
		return err
	}

	tasks := make([]tui.Task, 0, len(args))
	for _, remote := range args {
		tasks = append(tasks, a.deleteTask(remote))
	}

	return a.runTasks("Deleting", tasks)
}

func (a *app) deleteTask(remote string) tui.Task {
	return tui.Task{
		Label: "delete " + remote,
		Run: func() (types.OperationResult, error) {
			result := types.OperationResult{Op: "delete", Remote: remote}

			err := a.manager.DeleteFile(remote)
			if err != nil && a.opts.Force && cloud.IsNotFound(err) {
				log.Debug().Str("remote", remote).Msg("Path does not exist, skipping")
				result.Op = "skip"
				return result, nil
			}
			if err != nil {
				result.Error = err.Error()
				return result, err
			}

			log.Debug().Str("remote", remote).Msg("Deleted")
			return result, nil
		},
	}
}

// runTasks runs tasks in order, behind the progress display on a terminal,
// and reports their results. Failures do not stop the remaining tasks.
func (a *app) runTasks(title string, tasks []tui.Task) error {
	var results []tui.Result
	var runErr error

	if !a.opts.Json && isTerminal(a.out) {
		results, runErr = tui.Run(title, tasks, a.out)
	} else {
		p := a.printer()
		for _, task := range tasks {
			r, err := task.Run()
			p.PrintResult(r)
			results = append(results, tui.Result{OperationResult: r, Err: err})
		}
	}

	var batch errbatch.ErrBatch
	batch.Add(runErr)

	summary := &ui.OperationSummary{}
	operations := make([]types.OperationResult, 0, len(results))
	for _, r := range results {
		operations = append(operations, r.OperationResult)
		if r.Err != nil {
			batch.Add(r.Err)
			summary.Errors++
			continue
		}
		switch r.Op {
		case "upload":
			summary.Uploaded++
		case "download":
			summary.Downloaded++
		case "delete":
			summary.Deleted++
		case "skip":
			summary.Skipped++
		}
		summary.Bytes += uint64(r.Bytes)
	}

	batch.Add(a.close())

	if a.opts.Json {
		s, err := jsonoutput.ToJSON(jsonoutput.FromResults(a.manager.Name(), operations))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, s)
		return batch.Compile()
	}

	p := a.printer()
	if len(tasks) > 1 {
		p.PrintSummary(summary)
	}
	err := batch.Compile()
	if err == nil && len(tasks) > 0 {
		p.Done()
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
