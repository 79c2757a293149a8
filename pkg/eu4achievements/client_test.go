package eu4achievements

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

const profileHTML = `<div class="achieveRow">
  <div class="achieveTxt"><h3>Brentry</h3><h5>Own Brandenburg.</h5></div>
  <div class="achieveUnlockTime">Unlocked</div>
</div>
<div class="achieveRow">
  <div class="achieveTxt"><h3>Tall Order</h3><h5>Have 50 development in one province.</h5></div>
</div>`

const wikiHTML = `<table>
<tr><th>Achievement</th><th>Difficulty</th></tr>
<tr><td><span id="Brentry!"></span></td><td>M</td></tr>
<tr><td><span id="Tall_Order"></span></td><td>H</td></tr>
</table>`

func newTestClient(t *testing.T) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/profiles/"):
			_, _ = w.Write([]byte(profileHTML))
		case r.URL.Path == "/wiki":
			_, _ = w.Write([]byte(wikiHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(
		WithSources(srv.URL+"/profiles/{user}/{app}", srv.URL+"/id/{user}/{app}", srv.URL+"/wiki"),
		WithTimeout(5*time.Second),
		WithUserAgent("eu4achievements-test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientReport(t *testing.T) {
	client := newTestClient(t)

	records, err := client.Report(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Brentry!", records[0].Title)
	assert.True(t, records[0].Unlocked)

	records, err = client.Report(context.Background(), "alice", "nc", "h")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Tall Order", records[0].Title)

	assert.Equal(t, int64(4), client.Stats()["requests_total"])
}

func TestClientReportUnknownFilter(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Report(context.Background(), "alice", "legendary")
	assert.ErrorIs(t, err, types.ErrUnknownFilter)
	assert.Zero(t, client.Stats()["requests_total"])
}

func TestClientDifficulties(t *testing.T) {
	client := newTestClient(t)

	got, err := client.Difficulties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Difficulty{
		{Title: "Brentry!", Tier: types.TierMedium},
		{Title: "Tall Order", Tier: types.TierHard},
	}, got)
}

func TestNewClientInvalidOptions(t *testing.T) {
	_, err := NewClient(WithSources("https://steamcommunity.com/profiles/", "", "https://eu4.paradoxwikis.com/Achievements"))
	assert.Error(t, err)

	_, err = NewClient(WithAppID(""))
	assert.Error(t, err)
}
