package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/tgschema/internal/assemble"
	"github.com/dgallion1/tgschema/internal/config"
	"github.com/dgallion1/tgschema/internal/logging"
	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/schema"
	"github.com/dgallion1/tgschema/internal/source"
)

const testDoc = `<!DOCTYPE html><html><body><div id="dev_page_content">
<h3><a class="anchor" href="#getting-updates"></a>Getting updates</h3>
<h4><a class="anchor" name="user" href="#user"></a>User</h4>
<p>This object represents a Telegram user or bot.</p>
<table class="table">
<thead><tr><th>Field</th><th>Type</th><th>Description</th></tr></thead>
<tbody>
<tr><td>id</td><td>Integer</td><td>Unique identifier for this user or bot.</td></tr>
<tr><td>username</td><td>String</td><td><em>Optional</em>. Username, 5-32 characters</td></tr>
</tbody>
</table>
<h4><a class="anchor" name="getme" href="#getme"></a>getMe</h4>
<p>A simple method for testing your bot's authentication token. Requires no parameters. Returns basic information about the bot in form of a <a href="#user">User</a> object.</p>
</div></body></html>`

const testMarkdownDoc = "### Getting updates\n\n" +
	"#### [User](#user)\n\n" +
	"This object represents a Telegram user or bot.\n\n" +
	"| Field | Type | Description |\n" +
	"| --- | --- | --- |\n" +
	"| id | Integer | Unique identifier for this user or bot. |\n\n" +
	"#### [getMe](#getme)\n\n" +
	"Returns basic information about the bot in form of a [User](#user) object.\n"

// fakeFetcher serves responses in order, then repeats the last one.
type fakeFetcher struct {
	mu        sync.Mutex
	responses []fetchResult
	calls     int
}

type fetchResult struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(f.calls, len(f.responses)-1)
	f.calls++
	return f.responses[i].data, f.responses[i].err
}

func newTestWorker(f Fetcher) *Worker {
	w := NewWorker(f, assemble.New(assemble.Options{}), NewBuildStats(time.Hour), logging.Discard())
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func TestWorker_ProcessUpload(t *testing.T) {
	w := newTestWorker(nil)
	job := NewJob(Input{Filename: "api.html", Data: []byte(testDoc)})

	require.NoError(t, w.Process(context.Background(), job))

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 2, snap.Progress.Items)
	assert.Equal(t, 1, snap.Progress.Types)
	assert.Equal(t, 1, snap.Progress.Methods)
	assert.Equal(t, ContentHashHex([]byte(testDoc)), snap.ContentHash)

	s := job.Result()
	require.NotNil(t, s)
	user := s.Types["User"]
	assert.Equal(t, "AbstractType", user.Parent)
	require.Len(t, user.Fields, 2)
	require.NotNil(t, user.Fields[1].Restrictions)
	require.NotNil(t, user.Fields[1].Restrictions.MinLength)
	assert.Equal(t, 5, *user.Fields[1].Restrictions.MinLength)
	assert.Equal(t, []schema.TypeRef{{Type: "User"}}, s.Methods[0].ReturnTypes)

	assert.Equal(t, 1, w.stats.Snapshot().Count)
}

func TestWorker_ProcessMarkdown(t *testing.T) {
	w := newTestWorker(nil)
	job := NewJob(Input{Filename: "api.md", Format: parser.FormatMarkdown, Data: []byte(testMarkdownDoc)})

	require.NoError(t, w.Process(context.Background(), job))
	s := job.Result()
	require.NotNil(t, s)
	assert.Contains(t, s.Types, "User")
	require.Len(t, s.Methods, 1)
	assert.Equal(t, "getMe", s.Methods[0].Name)
}

func TestWorker_FetchRetriesTransientErrors(t *testing.T) {
	f := &fakeFetcher{responses: []fetchResult{
		{err: &source.RetryableError{StatusCode: 503, Message: "unavailable"}},
		{data: []byte(testDoc)},
	}}
	w := newTestWorker(f)
	job := NewJob(Input{URL: "https://example.org/bots/api"})

	require.NoError(t, w.Process(context.Background(), job))
	assert.Equal(t, 2, f.calls)

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Len(t, snap.Progress.Errors, 1, "retried failure is kept as a non-fatal error")
}

func TestWorker_FetchGivesUpAfterMaxRetries(t *testing.T) {
	f := &fakeFetcher{responses: []fetchResult{
		{err: &source.RetryableError{StatusCode: 502, Message: "bad gateway"}},
	}}
	w := newTestWorker(f)
	job := NewJob(Input{URL: "https://example.org/bots/api"})

	err := w.Process(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, MaxRetries, f.calls)
	assert.True(t, source.IsRetryable(err))

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "fetching", snap.Phase)
	assert.Equal(t, 1, w.stats.Snapshot().Failures)
}

func TestWorker_FetchPermanentErrorNotRetried(t *testing.T) {
	f := &fakeFetcher{responses: []fetchResult{{err: errors.New("fetch: status 404")}}}
	w := newTestWorker(f)

	err := w.Process(context.Background(), NewJob(Input{URL: "https://example.org/missing"}))
	require.Error(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestWorker_NoSource(t *testing.T) {
	w := newTestWorker(nil)
	job := NewJob(Input{})
	require.Error(t, w.Process(context.Background(), job))
	assert.Equal(t, "queued", job.Snapshot().Phase)

	job = NewJob(Input{URL: "https://example.org/bots/api"})
	require.Error(t, w.Process(context.Background(), job))
	assert.Equal(t, "fetching", job.Snapshot().Phase)
}

func TestWorker_TypedFailure(t *testing.T) {
	doc := `<div id="dev_page_content"><h3><a href="#getting-updates"></a>Getting updates</h3>
<h4><a href="#sendthing"></a>sendThing</h4><p>Sends a thing.</p></div>`
	w := newTestWorker(nil)
	job := NewJob(Input{Data: []byte(doc)})

	err := w.Process(context.Background(), job)
	var missing *schema.MissingReturnTypeError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sendThing", missing.Method)

	snap := job.Snapshot()
	assert.Equal(t, "assembling", snap.Phase)
	assert.Equal(t, "missing_return_type", snap.Progress.ErrorKind)
	assert.Nil(t, job.Result())
}

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  1,
		MaxQueueSize: 1,
		JobTTL:       time.Hour,
		LinkBaseURL:  assemble.DefaultLinkBase,
	}
}

func TestOrchestrator_Run(t *testing.T) {
	o := NewOrchestrator(testConfig(), nil, logging.Discard())

	s, job, err := o.Run(context.Background(), Input{Data: []byte(testDoc)})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, StatusCompleted, job.Snapshot().Status)
	assert.Equal(t, "https://core.telegram.org/bots/api#user", s.Types["User"].Link)
	assert.Nil(t, o.GetJob(job.ID), "synchronous runs are not stored")
}

func TestOrchestrator_SubmitAndWait(t *testing.T) {
	o := NewOrchestrator(testConfig(), nil, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Start(ctx)
	defer o.Stop()

	job, err := o.Submit(Input{Data: []byte(testDoc)})
	require.NoError(t, err)
	require.Same(t, job, o.GetJob(job.ID))

	require.Eventually(t, func() bool {
		return job.Snapshot().Status == StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotNil(t, job.Result())
	assert.Equal(t, 1, o.Stats().Snapshot().Count)
}

func TestOrchestrator_SubmitQueueFull(t *testing.T) {
	// Not started, so nothing drains the queue.
	o := NewOrchestrator(testConfig(), nil, logging.Discard())

	_, err := o.Submit(Input{Data: []byte(testDoc)})
	require.NoError(t, err)
	assert.Equal(t, 1, o.QueueDepth())

	job, err := o.Submit(Input{Data: []byte(testDoc)})
	require.ErrorIs(t, err, ErrQueueFull)
	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "queue_full", snap.Phase)
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	o := NewOrchestrator(testConfig(), nil, logging.Discard())
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	job, err := o.Submit(Input{Data: []byte(testDoc)})
	require.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, StatusFailed, job.Snapshot().Status)
	assert.Nil(t, o.GetJob(job.ID))
}

func TestOrchestrator_SubmitRacingStop(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 64
	o := NewOrchestrator(cfg, nil, logging.Discard())
	o.Start(context.Background())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_, err := o.Submit(Input{Data: []byte(testDoc)})
				if err != nil {
					assert.True(t, errors.Is(err, ErrStopped) || errors.Is(err, ErrQueueFull), err.Error())
				}
			}
		}()
	}
	o.Stop()
	wg.Wait()
}
