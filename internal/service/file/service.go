package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxLogoDimension bounds the longer side of stored logos.
const MaxLogoDimension = 512

type FileService interface {
	// UploadCompanyLogo stores a downscaled copy of a JPEG or PNG logo
	UploadCompanyLogo(ctx context.Context, companyUsername string, file io.Reader, filename string) (string, error)

	// SaveExport stores a generated report under exports/<companyID>/
	SaveExport(ctx context.Context, companyID string, filename string, data []byte) (string, error)

	// OpenExport reads back a file written by SaveExport. filename must be a
	// bare name, without directories.
	OpenExport(ctx context.Context, companyID string, filename string) (io.ReadCloser, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadCompanyLogo implements FileService.
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, companyUsername string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", company.ErrFileTypeNotAllowed
	}

	buffer, err := io.ReadAll(io.LimitReader(file, company.MaxLogoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if len(buffer) > company.MaxLogoSize {
		return "", company.ErrFileSizeExceeds
	}

	encoded, err := downscaleLogo(buffer, ext)
	if err != nil {
		return "", err
	}

	key := path.Join("logos", companyUsername, fmt.Sprintf("%s-%s%s", companyUsername, uuid.New().String(), ext))
	uploaded, err := s.storage.Put(ctx, encoded, key)
	if err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}
	return uploaded, nil
}

// SaveExport implements FileService.
func (s *fileServiceImpl) SaveExport(ctx context.Context, companyID string, filename string, data []byte) (string, error) {
	key := path.Join("exports", companyID, filename)
	stored, err := s.storage.Put(ctx, data, key)
	if err != nil {
		return "", fmt.Errorf("failed to store export: %w", err)
	}
	return stored, nil
}

// OpenExport implements FileService.
func (s *fileServiceImpl) OpenExport(ctx context.Context, companyID string, filename string) (io.ReadCloser, error) {
	if filename == "" || filename == "." || filename == ".." || path.Base(filename) != filename || strings.Contains(filename, "\\") {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidPath, filename)
	}
	return s.storage.Download(ctx, path.Join("exports", companyID, filename))
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(path string) string {
	return s.storage.GetURL(path)
}

// downscaleLogo re-encodes the logo in its original format, shrinking it so
// the longer side is at most MaxLogoDimension.
func downscaleLogo(buffer []byte, ext string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", company.ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if longest := max(width, height); longest > MaxLogoDimension {
		width = max(1, width*MaxLogoDimension/longest)
		height = max(1, height*MaxLogoDimension/longest)
		img = resizeImage(img, width, height)
	}

	buf := new(bytes.Buffer)
	if ext == ".png" {
		err = png.Encode(buf, img)
	} else {
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
