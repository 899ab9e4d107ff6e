package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// PublicPrefix es la ruta HTTP bajo la que se sirven los documentos guardados.
const PublicPrefix = "/uploads"

// StoredFile es el resultado de guardar un documento de registro. Path es la
// ubicación en disco; URL es la ruta pública bajo PublicPrefix.
type StoredFile struct {
	Path     string
	URL      string
	MimeType string
}

// DiskStore guarda documentos de registro en disco con nombres únicos.
// Acepta como máximo maxFiles archivos de maxSize bytes, solo JPEG, PNG o PDF.
type DiskStore struct {
	dir      string
	maxSize  int64
	maxFiles int
}

func NewDiskStore(dir string, maxSize int64, maxFiles int) (*DiskStore, error) {
	if dir == "" {
		dir = "uploads/registration"
	}
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:      dir,
		maxSize:  maxSize,
		maxFiles: maxFiles,
	}, nil
}

// Dir devuelve el directorio de disco que respalda los URLs públicos.
func (s *DiskStore) Dir() string {
	return s.dir
}

// SaveAll valida y persiste los archivos. Ante cualquier rechazo elimina los
// que ya se habían escrito y devuelve el error.
func (s *DiskStore) SaveAll(files []*multipart.FileHeader) ([]StoredFile, error) {
	if len(files) > s.maxFiles {
		return nil, ErrTooManyFiles
	}

	stored := make([]StoredFile, 0, len(files))
	cleanup := func() {
		for _, f := range stored {
			_ = os.Remove(f.Path)
		}
	}

	for _, header := range files {
		file, err := s.saveOne(header)
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, file)
	}
	return stored, nil
}

func (s *DiskStore) saveOne(header *multipart.FileHeader) (StoredFile, error) {
	if header.Size > s.maxSize {
		return StoredFile{}, ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return StoredFile{}, err
	}
	defer src.Close()

	// El tipo se determina por contenido, no por extensión ni header del cliente.
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return StoredFile{}, err
	}
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return StoredFile{}, ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return StoredFile{}, err
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return StoredFile{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1)); err != nil {
		_ = os.Remove(path)
		return StoredFile{}, err
	}

	return StoredFile{Path: path, URL: PublicPrefix + "/" + name, MimeType: mtype.String()}, nil
}
