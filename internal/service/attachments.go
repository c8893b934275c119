package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
	"github.com/staffhub/candidate-grid/internal/storage"
)

const (
	maxBaseNameLen = 120
	previewLen     = 500
)

// AttachmentRecords is the attachment repository as seen by the service
type AttachmentRecords interface {
	FindByID(ctx context.Context, candidateID, id uuid.UUID) (*model.Attachment, error)
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	Delete(ctx context.Context, candidateID, id uuid.UUID) (string, error)
}

// Upload is one incoming file
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// AttachmentService stores candidate files in a blob store and indexes them in Postgres.
type AttachmentService struct {
	records    AttachmentRecords
	candidates CandidateFinder
	details    DetailLoader
	blobs      storage.Store
	maxBytes   int64
	now        func() time.Time
}

func NewAttachmentService(
	records AttachmentRecords,
	candidates CandidateFinder,
	details DetailLoader,
	blobs storage.Store,
	maxBytes int64,
) *AttachmentService {
	return &AttachmentService{
		records:    records,
		candidates: candidates,
		details:    details,
		blobs:      blobs,
		maxBytes:   maxBytes,
		now:        time.Now,
	}
}

// Upload stores the file and returns the refreshed candidate
func (s *AttachmentService) Upload(ctx context.Context, candidateID uuid.UUID, up Upload, actor string) (*model.CandidateDetail, error) {
	cand, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("loading candidate: %w", err)
	}
	if cand == nil {
		return nil, apperr.NotFound("Candidate")
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperr.Validation("File Too Large",
			fmt.Errorf("maximum size is %d MB", s.maxBytes/(1024*1024)))
	}
	if len(data) == 0 {
		return nil, apperr.Validation("Empty File", fmt.Errorf("the uploaded file is empty"))
	}

	name := SanitizeFileName(up.FileName)
	contentType := up.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	att := &model.Attachment{
		CandidateID: candidateID,
		FileName:    name,
		DisplayName: DisplayName(name),
		ContentType: contentType,
		Size:        int64(len(data)),
		StorageKey:  s.storageKey(candidateID, name),
		UploadedBy:  actor,
	}

	if isPDF(data) {
		text, err := extractPDFText(data)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Failed to extract text from PDF attachment")
		} else {
			att.TextPreview = preview(text, previewLen)
		}
	}

	if err := s.blobs.Put(ctx, att.StorageKey, bytes.NewReader(data), att.Size, contentType); err != nil {
		return nil, fmt.Errorf("storing attachment: %w", err)
	}

	if _, err := s.records.Create(ctx, att); err != nil {
		if delErr := s.blobs.Delete(ctx, att.StorageKey); delErr != nil {
			log.Warn().Err(delErr).Str("key", att.StorageKey).Msg("Failed to remove orphaned attachment blob")
		}
		return nil, err
	}

	log.Info().
		Str("candidateId", candidateID.String()).
		Str("file", name).
		Int("bytes", len(data)).
		Bool("preview", att.TextPreview != "").
		Msg("Attachment uploaded")

	return s.reload(ctx, candidateID)
}

// Open returns the attachment metadata with a reader over its content.
// The caller closes the reader.
func (s *AttachmentService) Open(ctx context.Context, candidateID, id uuid.UUID) (*model.Attachment, io.ReadCloser, error) {
	att, err := s.records.FindByID(ctx, candidateID, id)
	if err != nil {
		return nil, nil, err
	}
	if att == nil {
		return nil, nil, apperr.NotFound("Attachment")
	}

	rc, err := s.blobs.Open(ctx, att.StorageKey)
	if err == storage.ErrNotFound {
		return nil, nil, apperr.NotFound("Attachment file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening attachment: %w", err)
	}
	return att, rc, nil
}

// Delete removes the record, then the blob. A blob that cannot be removed is
// logged and left behind.
func (s *AttachmentService) Delete(ctx context.Context, candidateID, id uuid.UUID) (*model.CandidateDetail, error) {
	key, err := s.records.Delete(ctx, candidateID, id)
	if err != nil {
		return nil, err
	}
	if err := s.blobs.Delete(ctx, key); err != nil && err != storage.ErrNotFound {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete attachment blob")
	}
	return s.reload(ctx, candidateID)
}

func (s *AttachmentService) reload(ctx context.Context, id uuid.UUID) (*model.CandidateDetail, error) {
	return Reload(ctx, s.details, id)
}

// storageKey is <candidate>/<unix millis>-<name>_<uuid><ext>
func (s *AttachmentService) storageKey(candidateID uuid.UUID, name string) string {
	ext := path.Ext(name)
	base := strings.ReplaceAll(strings.TrimSuffix(name, ext), " ", "-")
	return fmt.Sprintf("%s/%d-%s_%s%s", candidateID, s.now().UnixMilli(), base, uuid.New(), ext)
}

// ── File names ───────────────────────────────────────

// SanitizeFileName drops any directory part, replaces characters outside a
// conservative set, collapses whitespace and bounds the length. The extension
// is kept.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		name = ""
	}

	ext := strings.ToLower(path.Ext(name))
	base := strings.TrimSuffix(name, path.Ext(name))
	if !validExt.MatchString(ext) {
		ext, base = "", name
	}

	base = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '-', r == '_', r == '.', r == '(', r == ')':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return '_'
	}, base)
	base = strings.Join(strings.Fields(base), " ")
	base = strings.Trim(base, ". ")

	if r := []rune(base); len(r) > maxBaseNameLen {
		base = strings.TrimSpace(string(r[:maxBaseNameLen]))
	}
	if base == "" {
		base = "file"
	}

	return base + ext
}

var (
	validExt        = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
	timestampPrefix = regexp.MustCompile(`^\d+-(\d+-)?`)
	uuidSuffix      = regexp.MustCompile(`_[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// DisplayName strips storage decorations from a file name: a leading
// "<digits>-" or "<digits>-<digits>-" prefix and a trailing "_<uuid>"
// before the extension. A name that would end up empty is returned as is.
func DisplayName(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	stripped := uuidSuffix.ReplaceAllString(base, "")
	stripped = timestampPrefix.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(stripped)

	if stripped == "" {
		return name
	}
	return stripped + ext
}

// ── PDF preview ──────────────────────────────────────

func isPDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("Failed to extract text from PDF page")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
		if sb.Len() > previewLen*4 {
			break
		}
	}
	return sb.String(), nil
}

// preview collapses whitespace and keeps the first n characters
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
