package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/user-registry/internal/domain/entity"
)

// NewClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

const usersMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "integer"},
      "email":      {"type": "keyword"},
      "first_name": {"type": "text"},
      "last_name":  {"type": "text"},
      "birthdate":  {"type": "date", "format": "yyyy-MM-dd"},
      "country":    {"type": "keyword"},
      "city":       {"type": "keyword"},
      "indexed_at": {"type": "date"}
    }
  }
}`

// UserIndex mirrors users into an Elasticsearch index for full-text lookups
// by other systems. The record store stays the source of truth.
type UserIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Timeout   time.Duration
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, IndexName: index, Timeout: 3 * time.Second}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.IndexName}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.IndexName, Body: bytes.NewReader([]byte(usersMapping))}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.IndexName, res.Status())
	}
	return nil
}

func userDocument(u *entity.User) map[string]any {
	doc := map[string]any{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"birthdate":  u.Birthdate.String(),
		"indexed_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if u.Email != nil {
		doc["email"] = u.Email.Email
	}
	if u.Address != nil {
		doc["country"] = u.Address.Country
		doc["city"] = u.Address.City
	}
	return doc
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(userDocument(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: strconv.Itoa(u.ID), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %d: %s", u.ID, res.Status())
	}
	return nil
}

// Remove deletes the user's document; a missing document is not an error.
func (x *UserIndex) Remove(ctx context.Context, id int) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.Itoa(id)}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove user %d: %s", id, res.Status())
	}
	return nil
}
