package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
	"github.com/byhelaman/minerva-api/pkg/export"
	"github.com/byhelaman/minerva-api/pkg/storage"
)

type sessionRowsProvider interface {
	Rows(ctx context.Context, sessionID string, statuses []models.RowStatus) (*dto.SessionRowsResponse, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders assignment reports and persists the files.
type ExportService struct {
	sessions sessionRowsProvider
	storage  fileStorage
	csv      datasetRenderer
	pdf      titledRenderer
	xlsx     datasetRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(sessions sessionRowsProvider, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		sessions: sessions,
		storage:  store,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		xlsx:     export.NewXLSXExporter(),
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate renders the assignment report for the job's session and stores
// the result, returning the signed download metadata.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job.SessionID)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	case models.ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("assignments_%s.%s", time.Now().UTC().Format("20060102_150405"), job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/exports/download?token=%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

var assignmentReportHeaders = []string{
	"Date", "Start", "End", "Branch", "Instructor", "Program",
	"Status", "Meeting ID", "Topic", "Host", "Score", "Conflict", "Reason",
}

func (s *ExportService) buildDataset(ctx context.Context, sessionID string) (export.Dataset, string, error) {
	resp, err := s.sessions.Rows(ctx, sessionID, nil)
	if err != nil {
		return export.Dataset{}, "", err
	}

	rows := make([]map[string]string, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		record := map[string]string{
			"Date":       row.Entry.Date,
			"Start":      row.Entry.StartTime,
			"End":        row.Entry.EndTime,
			"Branch":     row.Entry.Branch,
			"Instructor": row.Instructor,
			"Program":    row.Entry.Program,
			"Status":     row.StatusLabel,
			"Reason":     row.Reason,
		}
		if row.MatchedCandidate != nil {
			record["Meeting ID"] = row.MatchedCandidate.Candidate.MeetingID
			record["Topic"] = row.MatchedCandidate.Candidate.Topic
			record["Host"] = row.HostName
			record["Score"] = fmt.Sprintf("%.2f", row.MatchedCandidate.Score)
		}
		if resp.Overlaps.HasConflict(row.Entry.Key) {
			record["Conflict"] = "yes"
		}
		rows = append(rows, record)
	}

	dataset := export.Dataset{Headers: assignmentReportHeaders, Rows: rows}
	title := fmt.Sprintf("Assignment Report %s", time.Now().UTC().Format("2006-01-02"))
	return dataset, title, nil
}
