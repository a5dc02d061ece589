package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dcarrero/unquantum"
)

// flags mirrors spec §6's CLI surface. Grounded on the teacher's
// cmd/pbzip2/main.go flag/command structuring, minus everything that
// existed there only to serve its S3/progress-bar front end (see
// DESIGN.md for the per-dependency reasoning).
type flags struct {
	list      bool
	test      bool
	info      bool
	makeDirs  bool
	outputDir string
	verbose   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "unquantum:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	extract := true

	cmd := &cobra.Command{
		Use:   "unquantum [OPTIONS] <archive.q>",
		Short: "Extract and inspect Quantum (.Q) archives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case f.list:
				return runList(args[0], f)
			case f.info:
				return runInfo(args[0], f)
			case f.test:
				return runTest(args[0], f)
			default:
				return runExtract(args[0], f)
			}
		},
	}

	cmd.Flags().BoolVarP(&extract, "extract", "x", true, "extract files (default)")
	cmd.Flags().BoolVarP(&f.list, "list", "l", false, "list archive contents")
	cmd.Flags().BoolVarP(&f.test, "test", "t", false, "test archive integrity without writing files")
	cmd.Flags().BoolVarP(&f.info, "info", "i", false, "print archive header information")
	cmd.Flags().BoolVarP(&f.makeDirs, "dirs", "d", false, "recreate directory structure from stored paths")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", ".", "destination directory for extracted files")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")

	return cmd
}

func openExtractor(path string) (*unquantum.Extractor, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %q", path)
	}
	ex, err := unquantum.NewExtractor(file)
	if err != nil {
		file.Close()
		return nil, nil, errors.Wrapf(err, "parsing %q", path)
	}
	return ex, file, nil
}

func runInfo(path string, f *flags) error {
	ex, file, err := openExtractor(path)
	if err != nil {
		return err
	}
	defer file.Close()

	hdr := ex.Archive().Header
	fmt.Printf("archive:     %s\n", path)
	fmt.Printf("version:     %d.%d\n", hdr.MajorVersion, hdr.MinorVersion)
	fmt.Printf("files:       %d\n", hdr.FileCount)
	fmt.Printf("window:      2^%d bytes\n", hdr.TableSize)
	fmt.Printf("flags:       0x%02x\n", hdr.Flags)
	return nil
}

func runList(path string, f *flags) error {
	ex, file, err := openExtractor(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, e := range ex.Archive().Entries {
		fmt.Printf("%10d  %s  %s\n", e.ExpandedSize, formatDOSDateTime(e.DOSDate, e.DOSTime), e.Name)
		if f.verbose && e.Comment != "" {
			fmt.Printf("            # %s\n", e.Comment)
		}
	}
	return nil
}

func runTest(path string, f *flags) error {
	ex, file, err := openExtractor(path)
	if err != nil {
		return err
	}
	defer file.Close()

	results, err := ex.ExtractAll()
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Mismatch != nil {
			failed++
			fmt.Printf("FAILED  %s: %v\n", r.Entry.Name, r.Mismatch)
			continue
		}
		if f.verbose {
			fmt.Printf("OK      %s\n", r.Entry.Name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed checksum verification", failed, len(results))
	}
	return nil
}

func runExtract(path string, f *flags) error {
	ex, file, err := openExtractor(path)
	if err != nil {
		return err
	}
	defer file.Close()

	results, err := ex.ExtractAll()
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		dest := filepath.Join(f.outputDir, sanitizeRelPath(r.Entry.Name, f.makeDirs))
		if err := writeExtractedFile(dest, r.Data); err != nil {
			return errors.Wrapf(err, "writing %q", dest)
		}
		if r.Mismatch != nil {
			failed++
			fmt.Fprintf(os.Stderr, "warning: %v\n", r.Mismatch)
		}
		if f.verbose {
			fmt.Println(dest)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d files failed checksum verification", failed)
	}
	return nil
}

// sanitizeRelPath collapses a stored archive path to a single
// filename unless -d/--dirs was requested, and always strips any
// leading path separators or ".." components so extraction cannot
// escape outputDir.
func sanitizeRelPath(name string, keepDirs bool) string {
	if !keepDirs {
		return filepath.Base(name)
	}
	clean := filepath.Clean("/" + name)
	return clean[1:]
}

func writeExtractedFile(dest string, data []byte) error {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(dest, data, 0o644)
}
