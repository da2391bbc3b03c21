package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// fakeLLM serves a canned completion and records the last prompt pair.
func fakeLLM(t *testing.T, reply string) (*Service, *recorded) {
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		rec.system = req.Messages[0].Content
		rec.user = req.Messages[1].Content

		fmt.Fprintf(w, `{"choices":[{"message":{"content":%s}}]}`, mustJSON(reply))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
	})
	return NewService(client, zap.NewNop()), rec
}

type recorded struct {
	system string
	user   string
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestPlan_ParsesReply(t *testing.T) {
	svc, _ := fakeLLM(t, `Sure! {"intent":"create_event","themes":["birthday decorations"],"budget":30,"query_for_user":"On it."}`)

	plan, err := svc.Plan(context.Background(), "birthday party under 30")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentCreateEvent, plan.Intent)
	assert.Equal(t, []string{"birthday decorations"}, plan.Themes)
	require.NotNil(t, plan.Budget)
	assert.Equal(t, 30.0, *plan.Budget)
	assert.Equal(t, "On it.", plan.Reply)
}

func TestPlan_UnknownIntentFoldsToUnknown(t *testing.T) {
	svc, _ := fakeLLM(t, `{"intent":"world_domination"}`)

	plan, err := svc.Plan(context.Background(), "take over the world")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentUnknown, plan.Intent)
}

func TestPlan_GarbageReply(t *testing.T) {
	svc, _ := fakeLLM(t, `I am sorry, I cannot help with that.`)

	_, err := svc.Plan(context.Background(), "anything")
	assert.Error(t, err)
}

func TestExtract_NormalShape(t *testing.T) {
	svc, _ := fakeLLM(t, `{"products":[{"name":"lays","quantity":2,"preferences":["big","blue"]}],"intent":"add_to_cart"}`)

	extraction, err := svc.Extract(context.Background(), "2 big blue lays")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentAddToCart, extraction.Intent)
	require.Len(t, extraction.Products, 1)
	assert.Equal(t, "lays", extraction.Products[0].Name)
	assert.Equal(t, 2, extraction.Products[0].Quantity)
	assert.Equal(t, []string{"big", "blue"}, extraction.Products[0].Preferences)
}

func TestExtract_BareProductObject(t *testing.T) {
	svc, _ := fakeLLM(t, `{"name":"milk","quantity":1,"preferences":[]}`)

	extraction, err := svc.Extract(context.Background(), "a milk")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentAddToCart, extraction.Intent)
	require.Len(t, extraction.Products, 1)
	assert.Equal(t, "milk", extraction.Products[0].Name)
}

func TestExtract_ProductsAsObject(t *testing.T) {
	svc, _ := fakeLLM(t, `{"products":{"name":"milk","quantity":1},"intent":"add_to_cart"}`)

	extraction, err := svc.Extract(context.Background(), "a milk")
	require.NoError(t, err)
	require.Len(t, extraction.Products, 1)
	assert.Equal(t, "milk", extraction.Products[0].Name)
}

func TestAllocate_ParsesDecisionsAndStripsSimilarity(t *testing.T) {
	svc, rec := fakeLLM(t, "Here you go:\n```json\n[{\"id\":1,\"quantity\":2},{\"id\":3,\"quantity\":1}]\n```")

	decisions, err := svc.Allocate(context.Background(), []domain.Product{
		{ID: 1, Name: "A", Price: 5, Similarity: 0.9},
		{ID: 3, Name: "C", Price: 20, Similarity: 0.4},
	}, 30, "birthday under 30")
	require.NoError(t, err)

	require.Len(t, decisions, 2)
	assert.Equal(t, int64(1), decisions[0].ID)
	assert.Equal(t, 2, decisions[0].Quantity)

	// Only id/name/price leave the process; similarity stays home
	assert.Contains(t, rec.user, `"price": 5`)
	assert.NotContains(t, rec.user, "similarity")
	assert.Contains(t, rec.user, "BUDGET: 30")
}

func TestClassifyCommand_ProjectsSession(t *testing.T) {
	svc, rec := fakeLLM(t, `{"action":"update_quantity","item_id":1,"quantity":5}`)

	action, err := svc.ClassifyCommand(context.Background(), "make it five cakes", []domain.CandidateItem{
		{ID: 1, Name: "cake", Price: 12, Quantity: 2, Source: domain.SourceCurated},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionUpdateQuantity, action.Kind)
	assert.Equal(t, int64(1), action.ItemID)
	assert.Equal(t, 5, action.Quantity)

	// Classifier sees id/name/quantity, never price or source
	assert.Contains(t, rec.user, `"name": "cake"`)
	assert.NotContains(t, rec.user, "price")
	assert.NotContains(t, rec.user, "Curated")
}

func TestClassifyCommand_UnrecognizedAction(t *testing.T) {
	svc, _ := fakeLLM(t, `{"action":"dance"}`)

	action, err := svc.ClassifyCommand(context.Background(), "dance for me", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUnknown, action.Kind)
}

func TestComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := client.Complete(context.Background(), "sys", "user")
	assert.Error(t, err)
}

func TestExtractJSONHelpers(t *testing.T) {
	obj, err := extractJSONObject("noise {\"a\":1} trailing")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, obj)

	arr, err := extractJSONArray("```[1,2]```")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, arr)

	_, err = extractJSONObject("nothing here")
	assert.Error(t, err)
	_, err = extractJSONArray("nothing here")
	assert.Error(t, err)
}
