package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/files"
	"github.com/mkoskela/whisperdesk/internal/httpclient"
	"github.com/mkoskela/whisperdesk/internal/language"
	"github.com/mkoskela/whisperdesk/internal/logger"
)

const (
	defaultAPIModel = "whisper-1"
	maxAPIAttempts  = 3
)

// API transcribes through the OpenAI audio endpoints. Translation to
// English goes through /audio/translations; everything else through
// /audio/transcriptions.
type API struct {
	apiKey    string
	baseURL   string
	retryBase time.Duration
}

func NewAPI(apiKey string) *API {
	return &API{
		apiKey:    apiKey,
		baseURL:   "https://api.openai.com/v1",
		retryBase: time.Second,
	}
}

type errorEnvelope struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"`
}

func (e errorDetails) codeString() string {
	if e.Code == nil {
		return ""
	}
	return fmt.Sprint(e.Code)
}

func (a *API) Transcribe(ctx context.Context, inputPath, outputDir string, p Params) (string, error) {
	if strings.TrimSpace(a.apiKey) == "" {
		return "", apperrors.Auth(fmt.Errorf("no API key configured"))
	}
	if strings.TrimSpace(outputDir) == "" {
		outputDir = filepath.Dir(inputPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.Job("Cannot create output directory: "+outputDir, err)
	}

	text, err := a.request(ctx, inputPath, p)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(outputDir, OutputFileName(inputPath, p))
	outPath, renamed, err := files.SafePath(outPath)
	if err != nil {
		return "", apperrors.Job("Failed to pick an output path", err)
	}
	if renamed {
		logger.Info("Output already exists, writing under a new name", "path", outPath)
	}
	if err := files.AtomicWrite(outPath, []byte(text), 0o644); err != nil {
		return "", apperrors.Job("Failed to write transcript", err)
	}
	return outPath, nil
}

// request sends the upload, retrying transient failures with backoff.
func (a *API) request(ctx context.Context, inputPath string, p Params) (string, error) {
	for attempt := 1; ; attempt++ {
		text, err := a.requestOnce(ctx, inputPath, p)
		if err == nil {
			return text, nil
		}
		retry, backoff := retryDecision(ctx, err, attempt, maxAPIAttempts, a.retryBase)
		if !retry {
			return "", err
		}
		logger.Warn("Transcription request failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", apperrors.Canceled(ctx.Err())
		}
	}
}

// retryDecision reports whether a failed request should be retried and
// how long to back off first. Rate-limit responses wait twice as long.
func retryDecision(ctx context.Context, err error, attempt, maxAttempts int, base time.Duration) (bool, time.Duration) {
	if err == nil || attempt >= maxAttempts {
		return false, 0
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}
	if !apperrors.IsRetryable(err) {
		return false, 0
	}

	maxBackoff := 20 * base
	backoff := base << (attempt - 1)
	if apperrors.IsRateLimit(err) {
		backoff *= 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return true, backoff
}

func (a *API) requestOnce(ctx context.Context, inputPath string, p Params) (string, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return "", apperrors.Job("Cannot access input file: "+inputPath, err)
	}
	defer in.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		err := writeForm(form, in, inputPath, p)
		form.Close()
		pw.CloseWithError(err)
	}()

	endpoint := a.baseURL + "/audio/transcriptions"
	if p.TranslateToEnglish {
		endpoint = a.baseURL + "/audio/translations"
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	client := httpclient.GetDefaultClient()
	body, resp, err := httpclient.DoAndRead(client, httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.Canceled(ctx.Err())
		}
		return "", apperrors.Transient(fmt.Errorf("request failed: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyAPIError(resp.StatusCode, resp.Status, parseErrorDetails(body))
	}

	logger.Debug("Transcription API response", "status", resp.Status, "bytes", len(body))
	return string(body), nil
}

func writeForm(form *multipart.Writer, in io.Reader, inputPath string, p Params) error {
	part, err := form.CreateFormFile("file", filepath.Base(inputPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in); err != nil {
		return err
	}

	model := p.Model
	if strings.TrimSpace(model) == "" {
		model = defaultAPIModel
	}
	if err := form.WriteField("model", model); err != nil {
		return err
	}
	if err := form.WriteField("response_format", "text"); err != nil {
		return err
	}
	// The translations endpoint always targets English and rejects a
	// language field.
	if !p.TranslateToEnglish {
		if lang, ok := language.FromName(p.Language); ok {
			if err := form.WriteField("language", lang.Code); err != nil {
				return err
			}
		}
	}
	if strings.TrimSpace(p.InitialPrompt) != "" {
		if err := form.WriteField("prompt", p.InitialPrompt); err != nil {
			return err
		}
	}
	return nil
}

func parseErrorDetails(body []byte) errorDetails {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errorDetails{}
	}
	return envelope.Error
}

func classifyAPIError(statusCode int, status string, details errorDetails) error {
	cause := fmt.Errorf("openai status=%s type=%s code=%s message=%s", status, details.Type, details.codeString(), details.Message)

	switch statusCode {
	case http.StatusTooManyRequests:
		return apperrors.RateLimit(cause)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.New(
			apperrors.KindAuth,
			fmt.Sprintf("API authentication failed (%d): please verify your API key and permissions.", statusCode),
			cause,
		)
	default:
		if statusCode >= 500 {
			return apperrors.Transient(cause)
		}
		return apperrors.Job(fmt.Sprintf("Transcription API error (%d): %s", statusCode, details.Message), cause)
	}
}
