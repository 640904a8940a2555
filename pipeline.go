package printer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var imageExtensions = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

const (
	blueprintSuffix = "_blueprint.txt"
	previewSuffix   = "_converted"
)

// isPreview reports whether file is a preview written by an earlier run,
// which always sits next to the blueprint of the same image.
func isPreview(file string) bool {
	stem := Stem(file)
	if !strings.HasSuffix(stem, previewSuffix) || !strings.EqualFold(filepath.Ext(file), ".png") {
		return false
	}
	out := filepath.Join(filepath.Dir(file), strings.TrimSuffix(stem, previewSuffix)+blueprintSuffix)
	_, err := os.Stat(out)
	return err == nil
}

func isImage(file string) bool {
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]; !ok {
		return false
	}
	return !isPreview(file)
}

// findFiles emits every path given, expanding directories into the images
// they contain.
func (p *Printer) findFiles(ctx context.Context, paths []string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, path := range paths {
			if err := filepath.Walk(path, func(file string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				// Ignore any hidden files or directories below the ones asked for
				if file != path && info.Name()[0] == '.' {
					if info.Mode().IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				// Ignore anything that isn't a normal file
				if !info.Mode().IsRegular() {
					return nil
				}

				// Files named explicitly are always converted
				if file != path && !isImage(file) {
					return nil
				}

				select {
				case out <- file:
				case <-ctx.Done():
					return errors.New("walk cancelled")
				}

				return nil
			}); err != nil {
				errc <- err
				return
			}
		}
	}()
	return out, errc, nil
}

func (p *Printer) convertWorker(ctx context.Context, in <-chan string, opts Options, done func(string, *Conversion)) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for {
			var file string
			select {
			case f, ok := <-in:
				if !ok {
					return
				}
				file = f
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}

			c, err := p.ConvertFile(file, opts)
			if err != nil {
				errc <- err
				return
			}
			if done != nil {
				done(file, c)
			}
		}
	}()
	return errc, nil
}

// waitForPipeline cancels the pipeline on the first error but keeps
// draining until every stage has exited, so nothing runs after it returns.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ConvertAll converts every image in paths, descending into directories,
// using the given number of workers. Each file is converted independently
// with its own name as the label unless opts.Label is set. done, if not nil,
// is called after each file is written and must be safe for concurrent use;
// it is never called once ConvertAll has returned. The first error stops
// any further files being started.
func (p *Printer) ConvertAll(paths []string, opts Options, workers int, done func(string, *Conversion)) error {
	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := p.findFiles(ctx, paths)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := p.convertWorker(ctx, files, opts, done)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
