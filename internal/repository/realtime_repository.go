package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"CapIot.energyportal/internal/models"
)

// RealtimeRepository reads the usage tree from a hosted realtime database
// through its REST surface: GET {databaseURL}/{node}.json.
type RealtimeRepository struct {
	client *resty.Client
	node   string
	auth   string
}

// NewRealtimeRepository creates a repository reading node under databaseURL.
// auth, when set, is sent as the ?auth= credential.
func NewRealtimeRepository(databaseURL, node, auth string) *RealtimeRepository {
	client := resty.New().
		SetBaseURL(strings.TrimRight(databaseURL, "/")).
		SetTimeout(30 * time.Second)
	return &RealtimeRepository{
		client: client,
		node:   strings.Trim(node, "/"),
		auth:   auth,
	}
}

// FetchTree reads the whole node. The node holds a single household's
// readings, so productID is only logged.
func (r *RealtimeRepository) FetchTree(ctx context.Context, productID string) (models.ReadingTree, error) {
	req := r.client.R().SetContext(ctx)
	if r.auth != "" {
		req.SetQueryParam("auth", r.auth)
	}
	resp, err := req.Get("/" + r.node + ".json")
	if err != nil {
		return nil, fmt.Errorf("error reading realtime node %s: %w", r.node, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("realtime node %s returned %s", r.node, resp.Status())
	}

	tree, err := DecodeTree(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("error decoding realtime node %s: %w", r.node, err)
	}
	log.Printf("Loaded %d readings across %d dates from realtime node %s (product %s)", tree.Len(), len(tree), r.node, productID)
	return tree, nil
}

// DecodeTree parses a realtime database export of the reading tree. The
// database returns objects whose keys are small consecutive integers as
// arrays with null holes, so hour and minute levels accept both shapes.
// A null document decodes to an empty tree.
func DecodeTree(data []byte) (models.ReadingTree, error) {
	tree := models.ReadingTree{}
	if isNull(data) {
		return tree, nil
	}

	var dates map[string]json.RawMessage
	if err := json.Unmarshal(data, &dates); err != nil {
		return nil, fmt.Errorf("reading tree root: %w", err)
	}
	for date, rawHours := range dates {
		hours, err := decodeLevel(rawHours)
		if err != nil {
			return nil, fmt.Errorf("date %s: %w", date, err)
		}
		for hour, rawMinutes := range hours {
			minutes, err := decodeLevel(rawMinutes)
			if err != nil {
				return nil, fmt.Errorf("date %s hour %s: %w", date, hour, err)
			}
			for minute, rawWatts := range minutes {
				var watts float64
				if err := json.Unmarshal(rawWatts, &watts); err != nil {
					return nil, fmt.Errorf("date %s hour %s minute %s: %w", date, hour, minute, err)
				}
				tree.Add(date, hour, minute, watts)
			}
		}
	}
	return tree, nil
}

// decodeLevel returns the non-null children of an object or array, keyed by
// object key or array index.
func decodeLevel(raw json.RawMessage) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	trimmed := bytes.TrimSpace(raw)
	switch {
	case isNull(trimmed):
		return out, nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		for i, item := range items {
			if !isNull(item) {
				out[strconv.Itoa(i)] = item
			}
		}
		return out, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	for k, v := range obj {
		if !isNull(v) {
			out[k] = v
		}
	}
	return out, nil
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
