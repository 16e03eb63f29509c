package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/report"
	"github.com/godilite/washroom-dashboard/internal/washroom"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]string
}

func (r *recordingObserver) ObserveBackendRequest(endpoint, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = map[string]string{}
	}
	r.outcomes[endpoint] = outcome
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r chi.Router, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithTimeout(2 * time.Second)}, opts...)
	return New(srv.URL, opts...)
}

func sampleQuery(kind report.Kind, g report.Granularity) report.Query {
	return report.Query{
		Granularity: g,
		Date:        report.Date{Year: 2024, Month: 3, Day: 5},
		Washroom:    washroom.Identifier{Floor: washroom.FloorL1, Type: washroom.Male},
		Kind:        kind,
	}
}

func TestClient_Lists(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/feedbacks", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.Feedback{{Time: "2024-03-05 10:00:00", Washroom: "G male", Rating: 4}})
	})
	r.Get("/usages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.Usage{{Washroom: "L1 female", TotalUsage: 9}})
	})
	r.Get("/configurations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.Configuration{{ID: "c1", Floor: "L2", ToiletType: "oku"}})
	})
	r.Get("/washroom-stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []models.WashroomStat{{Floor: "G", ToiletType: "male", TotalFeedback: 3, OverallRating: 4.3}})
	})

	obs := &recordingObserver{}
	c := newTestClient(t, r, WithObserver(obs))
	ctx := context.Background()

	fb, err := c.Feedbacks(ctx)
	require.NoError(t, err)
	require.Len(t, fb, 1)
	assert.Equal(t, 4, fb[0].Rating)

	us, err := c.TopUsages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, us[0].TotalUsage)

	cfg, err := c.Configurations(ctx)
	require.NoError(t, err)
	assert.Equal(t, washroom.Identifier{Floor: washroom.FloorL2, Type: washroom.OKU}, cfg[0].Identifier())

	stats, err := c.WashroomStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stats[0].OverallRating)

	assert.Equal(t, outcomeOK, obs.outcomes["/feedbacks"])
}

func TestClient_TransportFailures(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/problems", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.Get("/notifications", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	})

	obs := &recordingObserver{}
	c := newTestClient(t, r, WithObserver(obs))

	_, err := c.Problems(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, outcomeUnavailable, obs.outcomes["/problems"])

	_, err = c.Notifications(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	dead := New("http://127.0.0.1:1", WithTimeout(500*time.Millisecond))
	_, err = dead.Feedbacks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Posts(t *testing.T) {
	var gotIDs []string
	var gotMessage string
	var gotCreds models.Credentials

	r := chi.NewRouter()
	r.Post("/mark-notifications-read", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		gotIDs = body.IDs
		writeJSON(w, map[string]string{"message": "Notifications marked as read"})
	})
	r.Post("/send-action-message", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)
		gotMessage = body["message"]
		writeJSON(w, models.ActionResult{Success: true, MessageSID: "SM1"})
	})
	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&gotCreds)
		writeJSON(w, models.AuthResult{Success: gotCreds.Password == "secret", Message: "Invalid credentials"})
	})
	r.Post("/register", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.AuthResult{Success: true, Message: "User registered successfully"})
	})

	c := newTestClient(t, r)
	ctx := context.Background()

	require.NoError(t, c.MarkNotificationsRead(ctx, []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, gotIDs)

	res, err := c.SendActionMessage(ctx, "hello")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "hello", gotMessage)

	auth, err := c.Login(ctx, models.Credentials{Username: "ops", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, auth.Success)
	assert.Equal(t, "ops", gotCreds.Username)

	auth, err = c.Login(ctx, models.Credentials{Username: "ops", Password: "nope"})
	require.NoError(t, err)
	assert.False(t, auth.Success)

	reg, err := c.Register(ctx, models.Credentials{Username: "new", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", reg.Message)
}

func TestClient_Report(t *testing.T) {
	var gotQuery map[string]string
	replies := map[string]string{
		"usage":    `[0,0,0,0,0,0,0,0,0,5,0,0,0,0,0,0,0,0,0,0,0,0,0,1]`,
		"feedback": `{"labels":["NO SOAP","SMELLY"],"data":[3,1],"counts":[3,1],"backgroundColor":["#FF6384"]}`,
		"rating":   `[0,1,0,2,0,7]`,
	}

	r := chi.NewRouter()
	r.Get("/report", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		gotQuery = map[string]string{
			"dateType":   q.Get("dateType"),
			"dateValue":  q.Get("dateValue"),
			"washroom":   q.Get("washroom"),
			"reportType": q.Get("reportType"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(replies[q.Get("reportType")]))
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	t.Run("usage", func(t *testing.T) {
		res, err := c.Report(ctx, sampleQuery(report.KindUsage, report.Day))
		require.NoError(t, err)
		assert.Len(t, res.Usage, 24)
		assert.Equal(t, 5, res.Usage[9])
		assert.Equal(t, map[string]string{
			"dateType":   "day",
			"dateValue":  "2024-03-05",
			"washroom":   "L1 male",
			"reportType": "usage",
		}, gotQuery)
	})

	t.Run("feedback", func(t *testing.T) {
		res, err := c.Report(ctx, sampleQuery(report.KindFeedback, report.Month))
		require.NoError(t, err)
		assert.Equal(t, []string{"NO SOAP", "SMELLY"}, res.Feedback.Labels)
		assert.Equal(t, []int{3, 1}, res.Feedback.Counts)
		assert.Equal(t, "2024-03", gotQuery["dateValue"])
	})

	t.Run("rating", func(t *testing.T) {
		res, err := c.Report(ctx, sampleQuery(report.KindRating, report.Day))
		require.NoError(t, err)
		assert.Equal(t, report.Histogram{0, 1, 0, 2, 0, 7}, res.Ratings)
	})

	t.Run("invalid query is not sent", func(t *testing.T) {
		q := sampleQuery(report.KindRating, report.Day)
		q.Washroom = washroom.Identifier{}
		_, err := c.Report(ctx, q)
		assert.ErrorIs(t, err, report.ErrInvalidQuery)
	})
}

func TestClient_ReportNoDataSentinel(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/report", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"message": "No data available"})
	})
	obs := &recordingObserver{}
	c := newTestClient(t, r, WithObserver(obs))

	for _, kind := range []report.Kind{report.KindUsage, report.KindFeedback, report.KindRating} {
		_, err := c.Report(context.Background(), sampleQuery(kind, report.Day))
		assert.ErrorIs(t, err, ErrNoData, string(kind))
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, outcomeNoData, obs.outcomes["/report"])
}

func TestDecodeReport(t *testing.T) {
	_, err := decodeReport(report.KindUsage, []byte("  null "))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = decodeReport(report.KindUsage, []byte(`{"labels":[]}`))
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = decodeReport(report.KindRating, []byte(`[1,2,"x"]`))
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = decodeReport("cost", []byte(`[1]`))
	assert.ErrorIs(t, err, report.ErrInvalidKind)
}
