package analysis

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/kbroman/errorgrams/pkg/corpus"
	"github.com/kbroman/errorgrams/pkg/extract"
	"github.com/kbroman/errorgrams/pkg/trigram"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSourceDown = errors.New("source down")

type staticSource struct {
	posts []corpus.Post
	err   error
}

func (s staticSource) Posts(_ context.Context) ([]corpus.Post, error) {
	return s.posts, s.err
}

func testPosts() []corpus.Post {
	return []corpus.Post{
		{ID: 1, Body: "<p>I get</p><pre><code>Error in library(foo) : there is no package called 'foo'\n</code></pre>"},
		{ID: 2, Body: "<pre><code>Error: object 'x' not found\n</code></pre><p>and</p><pre><code>Error in library(bar) : there is no package called 'bar'</code></pre>"},
		{ID: 3, Body: "<p>No problems here</p>"},
		{ID: 4, Body: "<pre><code>Error: object 'y' not found\nIn addition: Warning message:\n</code></pre>"},
		{ID: 5, Body: ""},
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()

	e, err := extract.NewExtractor(extract.Config{})
	require.NoError(t, err)

	s, err := NewService(logrus.New(), &cfg, e)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	return s
}

func TestService_Analyze(t *testing.T) {
	s := newTestService(t, Config{TopK: 2})

	report, err := s.Analyze(context.Background(), testPosts())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), report.GeneratedAt)
	assert.Equal(t, 5, report.Posts)
	assert.Equal(t, 3, report.PostsWithErrors)
	assert.Equal(t, []string{
		"Error in library(foo) : there is no package called 'foo'",
		"Error: object 'x' not found",
		"Error in library(bar) : there is no package called 'bar'",
		"Error: object 'y' not found",
	}, report.Errors)
	assert.Equal(t, 4, report.ErrorStrings)

	expectedTotal := 0
	for _, e := range report.Errors {
		expectedTotal += trigram.Count(e)
	}

	assert.Equal(t, expectedTotal, report.TotalTrigrams)

	sum := 0
	for _, entry := range report.Ranked {
		sum += entry.Count
	}

	assert.Equal(t, report.TotalTrigrams, sum)
	assert.Equal(t, len(report.Ranked), report.UniqueTrigrams)

	// Four trigrams are shared by the two library() errors; ties resolve lexicographically
	assert.Equal(t, []string{": there is", "is no package", "no package called", "there is no"},
		trigram.Trigrams(report.Top(4)))
	assert.Equal(t, 2, report.Ranked[3].Count)
	assert.Equal(t, 1, report.Ranked[4].Count)
	assert.Equal(t, 2, report.TopK)
	assert.InDelta(t, 0.5, report.Coverage, 1e-9)
	require.Len(t, report.CoverageCurve, 2)
	assert.InDelta(t, report.Coverage, report.CoverageCurve[1], 1e-9)
}

func TestService_AnalyzeEmptyCorpus(t *testing.T) {
	s := newTestService(t, Config{TopK: 30})

	report, err := s.Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Posts)
	assert.Equal(t, 0, report.ErrorStrings)
	assert.Empty(t, report.Ranked)
	assert.InDelta(t, 0.0, report.Coverage, 1e-9)
	assert.Len(t, report.CoverageCurve, 30)
}

func TestService_AnalyzeCanceled(t *testing.T) {
	s := newTestService(t, Config{TopK: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Analyze(ctx, testPosts())
	require.ErrorIs(t, err, context.Canceled)
}

func TestService_Run(t *testing.T) {
	s := newTestService(t, Config{TopK: 5})

	report, err := s.Run(context.Background(), staticSource{posts: testPosts()})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Posts)

	_, err = s.Run(context.Background(), staticSource{err: errSourceDown})
	require.ErrorIs(t, err, errSourceDown)
}

func TestNewService_InvalidConfig(t *testing.T) {
	e, err := extract.NewExtractor(extract.Config{})
	require.NoError(t, err)

	_, err = NewService(logrus.New(), &Config{TopK: -1}, e)
	require.ErrorIs(t, err, ErrInvalidTopK)

	_, err = NewService(logrus.New(), &Config{ReportLimit: -1}, e)
	require.ErrorIs(t, err, ErrInvalidReportLimit)
}

func TestReport_CoverageAtMatchesCurve(t *testing.T) {
	s := newTestService(t, Config{TopK: 10})

	report, err := s.Analyze(context.Background(), testPosts())
	require.NoError(t, err)

	for k := 1; k <= 10; k++ {
		got, err := report.CoverageAt(k)
		require.NoError(t, err)
		assert.InDelta(t, report.CoverageCurve[k-1], got, 1e-9, "k=%d", k)
	}

	zero, err := report.CoverageAt(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, zero, 1e-9)
}

func TestReport_Sample(t *testing.T) {
	report := &Report{Errors: []string{
		"Error: object 'a' not found",
		"Error: object 'b' not found",
		"Error in f() : boom",
		"Error: object 'c' not found",
	}}

	all := report.Sample("not found", 0, nil)
	assert.Equal(t, []string{
		"Error: object 'a' not found",
		"Error: object 'b' not found",
		"Error: object 'c' not found",
	}, all)

	sampled := report.Sample("not found", 2, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, sampled, 2)

	for _, s := range sampled {
		assert.Contains(t, s, "not found")
	}

	again := report.Sample("not found", 2, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, sampled, again)

	assert.Empty(t, report.Sample("missing", 3, nil))
}
