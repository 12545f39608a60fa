package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

// ImageProcessor checks uploads and bounds jpeg/png payloads to the configured
// box. It never upscales; gif is passed through to keep animation frames.
type ImageProcessor struct {
	cfg     *config.ProcessingConfig
	formats map[string]struct{}
}

func NewImageProcessor(cfg *config.ProcessingConfig) *ImageProcessor {
	formats := make(map[string]struct{}, len(cfg.SupportedFormats))
	for _, f := range cfg.SupportedFormats {
		formats[strings.ToLower(strings.TrimPrefix(f, "."))] = struct{}{}
	}
	if cfg.OutputQuality <= 0 || cfg.OutputQuality > 100 {
		zlog.Logger.Warn().Int("output_quality", cfg.OutputQuality).Msg("Invalid output quality, using default")
		cfg.OutputQuality = 90
	}
	zlog.Logger.Info().
		Int("max_width", cfg.MaxWidth).
		Int("max_height", cfg.MaxHeight).
		Int("output_quality", cfg.OutputQuality).
		Strs("supported_formats", cfg.SupportedFormats).
		Msg("ImageProcessor initialized")
	return &ImageProcessor{cfg: cfg, formats: formats}
}

func (p *ImageProcessor) Prepare(file *domain.UploadFile) (*domain.UploadFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if _, ok := p.formats[ext]; !ok {
		zlog.Logger.Warn().Str("filename", file.Filename).Msg("unsupported file extension")
		return nil, fmt.Errorf("%w: .%s", domain.ErrInvalidFormat, ext)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}

	raw, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidFormat)
	}

	// dimensions come from the header so a pixel bomb is refused before
	// any pixel buffer is allocated
	header, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("filename", file.Filename).Msg("failed to read image header")
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > p.maxPixels() {
		zlog.Logger.Warn().
			Str("filename", file.Filename).
			Int("width", header.Width).
			Int("height", header.Height).
			Msg("upload exceeds pixel budget")
		return nil, fmt.Errorf("%w: %dx%d pixels", domain.ErrFileTooLarge, header.Width, header.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("filename", file.Filename).Msg("failed to decode upload")
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidFormat)
	}

	out := &domain.UploadFile{
		Filename:    file.Filename,
		ContentType: contentType(format),
		Size:        int64(len(raw)),
		Reader:      bytes.NewReader(raw),
	}

	if format == imaging.GIF || !p.exceedsBox(width, height) {
		return out, nil
	}

	fitted := imaging.Fit(img, p.cfg.MaxWidth, p.cfg.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, format, imaging.JPEGQuality(p.cfg.OutputQuality)); err != nil {
		zlog.Logger.Error().Err(err).Str("filename", file.Filename).Msg("failed to encode bounded image")
		return nil, fmt.Errorf("encode image: %w", err)
	}

	zlog.Logger.Info().
		Int("original_width", width).
		Int("original_height", height).
		Int("width", fitted.Bounds().Dx()).
		Int("height", fitted.Bounds().Dy()).
		Msg("upload bounded to max box")

	out.Size = int64(buf.Len())
	out.Reader = bytes.NewReader(buf.Bytes())
	return out, nil
}

func (p *ImageProcessor) maxPixels() int64 {
	if p.cfg.MaxPixels <= 0 {
		return config.DefaultMaxPixels
	}
	return p.cfg.MaxPixels
}

func (p *ImageProcessor) exceedsBox(width, height int) bool {
	if p.cfg.MaxWidth <= 0 || p.cfg.MaxHeight <= 0 {
		return false
	}
	return width > p.cfg.MaxWidth || height > p.cfg.MaxHeight
}

func contentType(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.BMP:
		return "image/bmp"
	case imaging.TIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
