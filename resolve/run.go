// Package resolve implements "resolve" command: it finds SVG documents in
// files, directories and archives, computes style cascade for every element
// and writes results.
package resolve

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding/ianaindex"

	"svgcss/archive"
	"svgcss/config"
	"svgcss/css"
	"svgcss/state"
	"svgcss/svg"
)

// Flags returns command line flags of the command. Values set on command
// line take precedence over configuration.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "to", Value: config.OutputFmtTree.String(),
			Usage: "output `TYPE` (supported types: " + strings.Join(config.OutputFmtNames(), ", ") + ")"},
		&cli.StringFlag{Name: "stylesheet", Aliases: []string{"css"}, Usage: "apply rules from `FILE` before document own style sheets"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "number of elements matched concurrently, 0 - number of CPUs"},
		&cli.BoolFlag{Name: "keep-style", Usage: "keep <style> elements in inlined SVG output"},
		&cli.BoolFlag{Name: "trace", Usage: "include every evaluated selector match in output"},
		&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
		&cli.StringFlag{Name: "force-zip-cp",
			Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
	}
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("resolve")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format := env.Cfg.Output.Format
	if cmd.IsSet("to") {
		if format, err = config.ParseOutputFmt(cmd.String("to")); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Stringer("format", env.Cfg.Output.Format), zap.Error(err))
			format = env.Cfg.Output.Format
		}
	}
	if cmd.IsSet("workers") {
		env.Cfg.Cascade.Workers = max(int(cmd.Int("workers")), 0)
	}
	if cmd.IsSet("stylesheet") {
		env.Cfg.Cascade.StylesheetPath = cmd.String("stylesheet")
	}
	if cmd.IsSet("keep-style") {
		env.Cfg.Cascade.KeepStyleElements = cmd.Bool("keep-style")
	}
	if cmd.IsSet("trace") {
		env.Cfg.Output.Trace = cmd.Bool("trace")
	}

	if path := env.Cfg.Cascade.StylesheetPath; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read stylesheet from %q: %w", path, err)
		}
		env.ExtraStyle = data
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, format, log)
}

// process determines the input type (directory, archive, or single file)
// and processes it accordingly. Path inside archive is allowed after
// archive name.
func process(ctx context.Context, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, format, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, format, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		doc, enc, err := isSVGFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if doc && len(tail) == 0 {
			file, err := os.Open(head)
			if err != nil {
				return fmt.Errorf("unable to process file: %w", err)
			}
			defer file.Close()
			return processFile(ctx, selectReader(file, enc), filepath.Base(head), dst, format, log)
		}
		return fmt.Errorf("input was not recognized as SVG document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir finds SVG files and archives under dir and processes them in
// natural order. Failures of individual files do not stop processing, they
// are combined into the returned error.
func processDir(ctx context.Context, dir, dst string, format config.OutputFmt, log *zap.Logger) (err error) {
	var paths natural.StringSlice
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(paths)

	count := 0
	for _, path := range paths {
		if cerr := ctx.Err(); cerr != nil {
			return multierr.Append(err, cerr)
		}

		isArchive, er := isArchiveFile(path)
		if er != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(er))
			continue
		}
		if isArchive {
			count++
			if er := processArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, dir)), dst, format, log); er != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(er))
				err = multierr.Append(err, er)
			}
			continue
		}

		doc, enc, er := isSVGFile(path)
		if er != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(er))
			continue
		}
		if !doc {
			log.Debug("Skipping file, not recognized as SVG or archive", zap.String("file", path))
			continue
		}
		count++

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if er := processPath(ctx, path, enc, rel, dst, format, log); er != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(er))
			err = multierr.Append(err, er)
		}
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return err
}

func processPath(ctx context.Context, path string, enc srcEncoding, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return processFile(ctx, selectReader(file, enc), src, dst, format, log)
}

// processArchive walks all files inside archive, finds SVG files under
// "pathIn" and processes them.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, format config.OutputFmt, log *zap.Logger) (err error) {
	count := 0
	var failed error
	err = archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc, enc, err := isSVGInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !doc {
			log.Debug("Skipping file, not recognized as SVG", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			failed = multierr.Append(failed, err)
			return nil
		}
		defer r.Close()

		if err := processFile(ctx, selectReader(r, enc), filepath.Join(pathOut, archiveName(ctx, f, log)), dst, format, log); err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			failed = multierr.Append(failed, err)
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
	}
	return multierr.Append(err, failed)
}

// archiveName returns entry name, converting it from forced code page when
// entry is not marked as UTF-8.
func archiveName(ctx context.Context, f *zip.File, log *zap.Logger) string {
	name := f.Name
	cp := state.EnvFromContext(ctx).CodePage
	if cp == nil || !f.NonUTF8 {
		return filepath.FromSlash(name)
	}
	if n, err := cp.NewDecoder().String(name); err == nil {
		name = n
	} else {
		cs, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding", zap.String("charset", cs), zap.String("path", name), zap.Error(err))
	}
	return filepath.FromSlash(name)
}

// processFile resolves single SVG document. "src" is the source path
// relative to the original input (base file name for a single file) and
// is used to name the output under "dst" directory.
func processFile(ctx context.Context, r io.Reader, src, dst string, format config.OutputFmt, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Resolving starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Resolving ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("resolving panic: %v", r)
		} else if rerr == nil {
			log.Info("Resolving completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read source (%s): %w", src, err)
	}
	if env.Rpt != nil && log.Core().Enabled(zapcore.DebugLevel) {
		env.Rpt.StoreData("source-"+slug.Make(src)+".svg", data)
	}

	doc, err := svg.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unable to parse SVG source (%s): %w", src, err)
	}

	parser := css.NewParser(log)
	sheet := svg.Stylesheet(doc, parser, src)
	if len(env.ExtraStyle) > 0 {
		// document rules follow external ones and win ties
		sheet = css.Concat(parser.Parse(string(env.ExtraStyle), env.Cfg.Cascade.StylesheetPath), sheet)
	}
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("file", src), zap.String("problem", w))
	}

	results, err := svg.NewResolver(env.Workers(), log).Resolve(ctx, doc, sheet)
	if err != nil {
		return fmt.Errorf("unable to resolve styles (%s): %w", src, err)
	}

	outputName = buildOutputPath(src, dst, format, env)

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output: %w", err)
	}
	err = writeOutput(out, &cascade{src: src, doc: doc, sheet: sheet, results: results}, format, env.Cfg)
	if err = multierr.Append(err, out.Close()); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store("result-"+slug.Make(src)+format.Ext(), outputName)
	}
	return nil
}
