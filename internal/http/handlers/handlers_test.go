package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"holosuite/internal/catalog"
	"holosuite/internal/domain"
	"holosuite/internal/http/handlers"
	"holosuite/internal/http/httpapi"
	"holosuite/internal/infra"
	imageprovider "holosuite/internal/providers/image"
	videoprovider "holosuite/internal/providers/video"
	"holosuite/internal/studio"
)

type stubImageModel struct {
	calls int
	resp  *genai.GenerateImagesResponse
}

func (s *stubImageModel) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	s.calls++
	return s.resp, nil
}

type stubContentModel struct {
	calls int
}

func (s *stubContentModel) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("edited")}},
	}}}}}, nil
}

type stubVideoModel struct {
	calls     int
	submitOp  *genai.GenerateVideosOperation
	submitErr error
}

func (s *stubVideoModel) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	s.calls++
	return s.submitOp, s.submitErr
}

func (s *stubVideoModel) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return op, nil
}

func (s *stubVideoModel) Download(ctx context.Context, uri string) ([]byte, string, error) {
	return []byte("mp4"), "video/mp4", nil
}

type testServer struct {
	router  http.Handler
	images  *stubImageModel
	content *stubContentModel
	videos  *stubVideoModel
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		images: &stubImageModel{resp: &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{ImageBytes: []byte("jpeg")}}},
		}},
		content: &stubContentModel{},
		videos: &stubVideoModel{submitOp: &genai.GenerateVideosOperation{
			Done: true,
			Response: &genai.GenerateVideosResponse{GeneratedVideos: []*genai.GeneratedVideo{
				{Video: &genai.Video{URI: "https://files.example/v.mp4"}},
			}},
		}},
	}

	cfg := &infra.Config{
		AppEnv:               "test",
		GeminiAPIKey:         "secret-key",
		ImageModel:           "imagen-4.0-generate-001",
		EditModel:            "gemini-2.5-flash-image",
		VideoModel:           "veo-3.1-fast-generate-preview",
		VideoResolution:      "720p",
		VideoAspectRatio:     "16:9",
		VideoPollInterval:    10 * time.Second,
		VideoPollMaxAttempts: 60,
		VideoPollMaxWait:     10 * time.Minute,
		UploadMaxBytes:       1 << 20,
		RateLimitPerMin:      1000,
		StudioSessionTTL:     time.Hour,
	}
	logger := infra.NopLogger()
	images := imageprovider.NewGeminiGenerator(ts.images, ts.content, imageprovider.Options{Logger: logger})
	videos := videoprovider.NewGeminiGenerator(ts.videos, videoprovider.Options{
		Poll:   videoprovider.PollConfig{Interval: time.Millisecond, MaxAttempts: 3},
		Logger: logger,
	})
	ctrl := studio.NewController(studio.NewMemoryStore(time.Hour), images, videos, studio.Options{Logger: logger, UploadMaxBytes: cfg.UploadMaxBytes})
	app := handlers.NewApp(cfg, logger, images, videos, catalog.New(), ctrl)
	ts.router = httpapi.NewRouter(app)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestGatewayRejectsInvalidInputWithoutProviderCalls(t *testing.T) {
	ts := newTestServer(t)
	validImage := `{"base64":"aGk=","mimeType":"image/png"}`

	cases := []struct {
		name string
		path string
		body string
		want string
	}{
		{"generate missing prompt", "/api/generate-image", `{}`, "Prompt is required and must be a string"},
		{"generate empty body", "/api/generate-image", ``, "Prompt is required and must be a string"},
		{"generate numeric prompt", "/api/generate-image", `{"prompt":42}`, "Prompt is required and must be a string"},
		{"generate blank prompt", "/api/generate-image", `{"prompt":"   "}`, "Prompt is required and must be a string"},
		{"edit missing image", "/api/edit-image", `{"prompt":"x"}`, "Image data is required with base64 and mimeType"},
		{"edit missing mime", "/api/edit-image", `{"image":{"base64":"aGk="},"prompt":"x"}`, "Image data is required with base64 and mimeType"},
		{"edit missing prompt", "/api/edit-image", `{"image":` + validImage + `}`, "Prompt is required and must be a string"},
		{"edit bad base64", "/api/edit-image", `{"image":{"base64":"***","mimeType":"image/png"},"prompt":"x"}`, "Image data must be valid base64"},
		{"video missing image", "/api/generate-video", `{"prompt":"x"}`, "Image data is required with base64 and mimeType"},
		{"video array prompt", "/api/generate-video", `{"image":` + validImage + `,"prompt":["x"]}`, "Prompt is required and must be a string"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tc.path, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			body := decodeBody[map[string]string](t, rec)
			if body["error"] != tc.want {
				t.Fatalf("error = %q, want %q", body["error"], tc.want)
			}
		})
	}

	if ts.images.calls != 0 || ts.content.calls != 0 || ts.videos.calls != 0 {
		t.Fatalf("provider called: images=%d content=%d videos=%d", ts.images.calls, ts.content.calls, ts.videos.calls)
	}
}

func TestGenerateImageReturnsJPEG(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/generate-image", `{"prompt":"a red cube"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	out := decodeBody[domain.ImageData](t, rec)
	if out.Base64 == "" || out.MIMEType != "image/jpeg" {
		t.Fatalf("unexpected image %+v", out)
	}
}

func TestEditImage(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/edit-image", `{"image":{"base64":"aGk=","mimeType":"image/png"},"prompt":"add a moon"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	out := decodeBody[domain.ImageData](t, rec)
	if out.MIMEType != "image/png" {
		t.Fatalf("mimeType = %q", out.MIMEType)
	}
}

func TestGenerateVideoNoDownloadLink(t *testing.T) {
	ts := newTestServer(t)
	ts.videos.submitOp = &genai.GenerateVideosOperation{Done: true}

	rec := ts.do(t, http.MethodPost, "/api/generate-video", `{"image":{"base64":"aGk=","mimeType":"image/png"},"prompt":"orbit"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Video generation succeeded but no download link was found." {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestGenerateVideoInvalidKey(t *testing.T) {
	ts := newTestServer(t)
	ts.videos.submitErr = genai.APIError{Code: 404, Message: "Requested entity was not found.", Status: "NOT_FOUND"}

	rec := ts.do(t, http.MethodPost, "/api/generate-video", `{"image":{"base64":"aGk=","mimeType":"image/png"},"prompt":"orbit"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"API_KEY_INVALID"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestGenerateVideoSuccess(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/generate-video", `{"image":{"base64":"aGk=","mimeType":"image/png"},"prompt":"orbit"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	out := decodeBody[domain.ImageData](t, rec)
	if out.MIMEType != "video/mp4" || out.Base64 == "" {
		t.Fatalf("unexpected video %+v", out)
	}
}

func TestListExperiences(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/experiences?category=nature", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Category   string              `json:"category"`
		Categories []string            `json:"categories"`
		Featured   *domain.Experience  `json:"featured"`
		Items      []domain.Experience `json:"items"`
		Rows       []catalog.Row       `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Category != "Nature" || len(body.Items) != 3 {
		t.Fatalf("unexpected filter result %q %d", body.Category, len(body.Items))
	}
	if body.Featured == nil || body.Featured.ID != "1" {
		t.Fatalf("featured missing: %+v", body.Featured)
	}
	if len(body.Rows) != 1 || body.Rows[0].Title != "Nature Experiences" {
		t.Fatalf("rows = %+v", body.Rows)
	}
	if len(body.Categories) != 6 {
		t.Fatalf("categories = %v", body.Categories)
	}
}

func TestGetExperience(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/experiences/8", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if exp := decodeBody[domain.Experience](t, rec); exp.Title != "Ancient Rome Restored" {
		t.Fatalf("title = %q", exp.Title)
	}

	rec = ts.do(t, http.MethodGet, "/v1/experiences/404", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "holosuite_session" {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestStudioFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/studio", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)

	rec = ts.do(t, http.MethodPost, "/v1/studio/generate", `{"prompt":"a red cube"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d body=%s", rec.Code, rec.Body.String())
	}
	state := decodeBody[studio.State](t, rec)
	if state.CurrentImage == nil || state.CurrentImage.MIMEType != "image/jpeg" {
		t.Fatalf("current image = %+v", state.CurrentImage)
	}
	original := *state.OriginalImage

	rec = ts.do(t, http.MethodPost, "/v1/studio/edit", `{"prompt":"add a moon"}`, cookie)
	state = decodeBody[studio.State](t, rec)
	if state.CurrentImage.MIMEType != "image/png" {
		t.Fatalf("edit did not replace current: %+v", state.CurrentImage)
	}

	rec = ts.do(t, http.MethodPost, "/v1/studio/animate", `{"prompt":"orbit"}`, cookie)
	state = decodeBody[studio.State](t, rec)
	if !state.CredentialModalOpen || ts.videos.calls != 0 {
		t.Fatalf("expected credential modal, got %+v (calls %d)", state, ts.videos.calls)
	}

	ts.do(t, http.MethodPost, "/v1/studio/credential", "", cookie)
	rec = ts.do(t, http.MethodPost, "/v1/studio/animate", `{"prompt":"orbit"}`, cookie)
	state = decodeBody[studio.State](t, rec)
	if state.VideoResult == nil || state.VideoResult.MIMEType != "video/mp4" {
		t.Fatalf("video missing: %+v", state)
	}

	rec = ts.do(t, http.MethodPost, "/v1/studio/reset", "", cookie)
	state = decodeBody[studio.State](t, rec)
	if *state.CurrentImage != original {
		t.Fatalf("reset did not restore original")
	}

	rec = ts.do(t, http.MethodPost, "/v1/studio/start-over", "", cookie)
	state = decodeBody[studio.State](t, rec)
	if state.CurrentImage != nil || state.OriginalImage != nil {
		t.Fatalf("start-over left images behind")
	}
}

func TestStudioGenerateMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/v1/studio/generate", `{"prompt":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStudioUploadJPEG(t *testing.T) {
	ts := newTestServer(t)

	var img bytes.Buffer
	if err := jpeg.Encode(&img, image.NewGray(image.Rect(0, 0, 3, 3)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="scene.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(img.Bytes())
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/studio/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	state := decodeBody[studio.State](t, rec)
	if state.CurrentImage == nil || state.CurrentImage.MIMEType != "image/jpeg" {
		t.Fatalf("current image = %+v", state.CurrentImage)
	}
	if state.UploadedFileName != "scene.jpg" {
		t.Fatalf("file name = %q", state.UploadedFileName)
	}
}

func TestHealthAndOpenAPI(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret-key") {
		t.Fatalf("health leaked the api key: %s", rec.Body.String())
	}
	var health struct {
		Status string `json:"status"`
		Models struct {
			Image string `json:"image"`
			Video string `json:"video"`
		} `json:"models"`
		Video struct {
			PollInterval    string `json:"pollInterval"`
			PollMaxAttempts int    `json:"pollMaxAttempts"`
		} `json:"video"`
		SessionStore string `json:"sessionStore"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Models.Image != "imagen-4.0-generate-001" || health.Models.Video != "veo-3.1-fast-generate-preview" {
		t.Fatalf("health = %+v", health)
	}
	if health.Video.PollInterval != "10s" || health.Video.PollMaxAttempts != 60 || health.SessionStore != "memory" {
		t.Fatalf("health video/store = %+v", health)
	}

	rec = ts.do(t, http.MethodGet, "/v1/openapi.json", "")
	if rec.Code != http.StatusOK || !json.Valid(rec.Body.Bytes()) {
		t.Fatalf("openapi = %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("openapi missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Fatalf("conditional openapi = %d (%d bytes)", rec.Code, rec.Body.Len())
	}
}

func TestStudioEventsStreamsState(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/studio/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var sawEvent, sawData bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: state" {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data: ") {
			var state studio.State
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &state); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			sawData = true
			break
		}
	}
	if !sawData {
		t.Fatalf("no state event received (scan err %v)", scanner.Err())
	}
}
