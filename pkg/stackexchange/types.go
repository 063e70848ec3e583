package stackexchange

import (
	"net/url"
	"strconv"

	"github.com/kbroman/errorgrams/pkg/corpus"
)

// Query selects the posts to search for
type Query struct {
	Tagged string
	Body   string
}

// wrapper is the common envelope of every API response
type wrapper struct {
	Items          []question `json:"items"`
	HasMore        bool       `json:"has_more"`
	QuotaMax       int        `json:"quota_max"`
	QuotaRemaining int        `json:"quota_remaining"`
	Backoff        int        `json:"backoff"`
	ErrorID        int        `json:"error_id"`
	ErrorName      string     `json:"error_name"`
	ErrorMessage   string     `json:"error_message"`
}

// question is the subset of a question object the analysis needs
type question struct {
	QuestionID   int64    `json:"question_id"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	Link         string   `json:"link"`
	Score        int      `json:"score"`
	CreationDate int64    `json:"creation_date"`
}

// Page is a decoded page of search results
type Page struct {
	Number         int
	Posts          []corpus.Post
	HasMore        bool
	QuotaRemaining int
	// Backoff is the number of seconds the API asks callers to wait before
	// sending the next request
	Backoff int
	// Cached is set when the page was served from the page cache
	Cached bool
}

func (q question) post() corpus.Post {
	return corpus.Post{
		ID:           q.QuestionID,
		Title:        q.Title,
		Body:         q.Body,
		Tags:         q.Tags,
		Link:         q.Link,
		Score:        q.Score,
		CreationDate: q.CreationDate,
	}
}

func (c *client) values(q Query, page int) url.Values {
	v := url.Values{}
	v.Set("site", c.cfg.Site)
	v.Set("filter", c.cfg.Filter)
	v.Set("order", "desc")
	v.Set("sort", c.cfg.Sort)
	v.Set("page", strconv.Itoa(page))
	v.Set("pagesize", strconv.Itoa(c.cfg.PageSize))

	if q.Tagged != "" {
		v.Set("tagged", q.Tagged)
	}

	if q.Body != "" {
		v.Set("body", q.Body)
	}

	if c.cfg.Key != "" {
		v.Set("key", c.cfg.Key)
	}

	return v
}
