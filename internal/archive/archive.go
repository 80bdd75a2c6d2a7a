package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/cleared-dev/bulkutil/internal/model"
	"github.com/cleared-dev/bulkutil/internal/tsv"
)

// DefaultDateSuffix is used in output file names when no suffix is configured.
const DefaultDateSuffix = "20200101"

var (
	// ErrMissingRequiredFile is matched by MissingFilesError.
	ErrMissingRequiredFile = errors.New("missing required files")
	// ErrDuplicateFile is returned when more than one entry matches a table pattern.
	ErrDuplicateFile = errors.New("multiple files match")
	// ErrInvalidDateSuffix is returned for an output suffix that is not 8 digits.
	ErrInvalidDateSuffix = errors.New("date suffix must be 8 digits")
)

var (
	patterns = map[model.TableKind]*regexp.Regexp{
		model.TableProperty: regexp.MustCompile(`^property_\d{8}\.txt$`),
		model.TableLineItem: regexp.MustCompile(`^lineItems_\d{8}\.txt$`),
		model.TableHistory:  regexp.MustCompile(`^historical_\d{8}\.txt$`),
	}
	prefixes = map[model.TableKind]string{
		model.TableProperty: "property",
		model.TableLineItem: "lineItems",
		model.TableHistory:  "historical",
	}
	suffixPattern = regexp.MustCompile(`^\d{8}$`)
)

// MissingFilesError names the logical files absent from an archive.
type MissingFilesError struct {
	Missing []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredFile, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrMissingRequiredFile) hold.
func (e *MissingFilesError) Is(target error) bool {
	return target == ErrMissingRequiredFile
}

// FileName returns the archive entry name for a table and date suffix.
func FileName(kind model.TableKind, dateSuffix string) string {
	return fmt.Sprintf("%s_%s.txt", prefixes[kind], dateSuffix)
}

// Match reports which table an entry name belongs to. Only the base name is
// considered and matching is case-sensitive.
func Match(name string) (model.TableKind, bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	for _, kind := range model.TableKinds {
		if patterns[kind].MatchString(base) {
			return kind, true
		}
	}
	return 0, false
}

// describe returns the name used for a table in missing-file messages.
func describe(kind model.TableKind) string {
	return kind.String() + " file"
}

// Load reads the three tables of a bulk upload zip into a Dataset.
func Load(zipPath string) (*model.Dataset, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	return read(&zr.Reader)
}

// NewReader reads a bulk upload zip from an in-memory or seekable source.
func NewReader(r io.ReaderAt, size int64) (*model.Dataset, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return read(zr)
}

func read(zr *zip.Reader) (*model.Dataset, error) {
	found := make(map[model.TableKind]*zip.File, len(model.TableKinds))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		kind, ok := Match(f.Name)
		if !ok {
			continue
		}
		if prev, dup := found[kind]; dup {
			return nil, fmt.Errorf("%w %s pattern: %s, %s", ErrDuplicateFile, prefixes[kind], prev.Name, f.Name)
		}
		found[kind] = f
	}

	var missing []string
	for _, kind := range model.TableKinds {
		if found[kind] == nil {
			missing = append(missing, describe(kind))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFilesError{Missing: missing}
	}

	var tables [3]model.Table
	for _, kind := range model.TableKinds {
		t, err := readTable(found[kind])
		if err != nil {
			return nil, err
		}
		tables[kind] = t
	}
	return model.NewDataset(tables[model.TableProperty], tables[model.TableLineItem], tables[model.TableHistory]), nil
}

func readTable(f *zip.File) (model.Table, error) {
	rc, err := f.Open()
	if err != nil {
		return model.Table{}, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	t, err := tsv.Read(rc)
	if err != nil {
		return model.Table{}, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return t, nil
}

// ValidateDateSuffix checks that s is usable in output file names.
func ValidateDateSuffix(s string) error {
	if !suffixPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidDateSuffix, s)
	}
	return nil
}

// Write stores ds as a bulk upload zip at zipPath. Tables without rows are
// omitted. The archive is written to a temporary file and renamed into place.
func Write(zipPath string, ds *model.Dataset, dateSuffix string) error {
	if err := ValidateDateSuffix(dateSuffix); err != nil {
		return err
	}

	dir := filepath.Dir(zipPath)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(zipPath), uuid.New().String()))
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	werr := WriteTo(f, ds, dateSuffix)
	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = fmt.Errorf("closing archive: %w", cerr)
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return werr
	}

	if err := os.Rename(tmp, zipPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("moving archive into place: %w", err)
	}
	return nil
}

// WriteTo writes ds as a zip stream to w.
func WriteTo(w io.Writer, ds *model.Dataset, dateSuffix string) error {
	if err := ValidateDateSuffix(dateSuffix); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, kind := range model.TableKinds {
		t := ds.Table(kind)
		if len(t.Rows) == 0 {
			continue
		}
		name := FileName(kind, dateSuffix)
		ew, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
		if err := tsv.Write(ew, t); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}
