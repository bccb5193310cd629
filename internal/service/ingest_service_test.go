package service

import (
	"testing"

	"github.com/pixelpulse/internal/agent"
	"github.com/pixelpulse/internal/anonymize"
	"github.com/pixelpulse/internal/db"
	"github.com/pixelpulse/internal/geo"
	"github.com/sirupsen/logrus"
)

type stubResolver struct {
	country string
	city    string
}

func (r stubResolver) Lookup(string) geo.Location {
	loc := geo.Location{}
	if r.country != "" {
		loc.Country = &r.country
	}
	if r.city != "" {
		loc.City = &r.city
	}
	return loc
}

func (stubResolver) Close() error { return nil }

type stubClassifier struct {
	result agent.Classification
}

func (c stubClassifier) Classify(string) agent.Classification {
	return c.result
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestIngestPersistsFullRecord(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	classifier := stubClassifier{result: agent.Classification{
		Browser:    strPtr("Chrome 120"),
		OS:         strPtr("Linux"),
		DeviceType: "desktop",
	}}
	ingest := NewIngestService(visits, stubResolver{country: "US", city: "Portland"}, classifier, "test-salt", 1, 16, testLogger())

	ingest.Enqueue("repo-x", "::ffff:203.0.113.7", "Mozilla/5.0", "https://example.com")
	ingest.Close()

	var stored []db.Visit
	if err := gdb.Find(&stored).Error; err != nil {
		t.Fatalf("failed to read visits: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(stored))
	}

	visit := stored[0]
	if visit.Label != "repo-x" {
		t.Fatalf("unexpected label: %q", visit.Label)
	}
	// 哈希使用规范化后的地址，与映射前缀无关
	if visit.IPHash != anonymize.Token("203.0.113.7", "test-salt") {
		t.Fatalf("unexpected ip hash: %q", visit.IPHash)
	}
	if visit.Country == nil || *visit.Country != "US" || visit.City == nil || *visit.City != "Portland" {
		t.Fatalf("unexpected geo fields: %+v", visit)
	}
	if visit.Browser == nil || *visit.Browser != "Chrome 120" {
		t.Fatalf("unexpected browser: %v", visit.Browser)
	}
	if visit.UserAgent == nil || *visit.UserAgent != "Mozilla/5.0" {
		t.Fatalf("raw agent must be stored verbatim: %v", visit.UserAgent)
	}
	if visit.Referer == nil || *visit.Referer != "https://example.com" {
		t.Fatalf("unexpected referer: %v", visit.Referer)
	}
	if visit.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be assigned")
	}
}

func TestIngestOmitsEmptyOptionalFields(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	ingest := NewIngestService(visits, geo.NoopResolver{}, stubClassifier{result: agent.Classification{DeviceType: "desktop"}}, "salt", 1, 16, testLogger())

	ingest.Enqueue("repo-x", "127.0.0.1", "", "")
	ingest.Close()

	var visit db.Visit
	if err := gdb.First(&visit).Error; err != nil {
		t.Fatalf("failed to read visit: %v", err)
	}
	if visit.UserAgent != nil || visit.Referer != nil || visit.Country != nil || visit.City != nil {
		t.Fatalf("expected nil optional fields, got %+v", visit)
	}
}

// 落库失败只记日志：不会 panic，也不会留下半条记录。
func TestIngestSwallowsStorageFailure(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	if err := gdb.Exec("DROP TABLE visits").Error; err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	ingest := NewIngestService(visits, geo.NoopResolver{}, stubClassifier{result: agent.Classification{DeviceType: "desktop"}}, "salt", 2, 16, testLogger())

	ingest.Enqueue("repo-x", "203.0.113.7", "", "")
	ingest.Close()
}

func TestIngestDropsWhenQueueFull(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	ingest := &IngestService{
		visits:     visits,
		resolver:   geo.NoopResolver{},
		classifier: stubClassifier{result: agent.Classification{DeviceType: "desktop"}},
		salt:       "salt",
		log:        testLogger(),
		queue:      make(chan ingestEvent, 1),
	}

	// 没有工作协程在消费，第二个事件必须被丢弃而不是阻塞
	ingest.Enqueue("a", "203.0.113.7", "", "")
	ingest.Enqueue("b", "203.0.113.7", "", "")

	if len(ingest.queue) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(ingest.queue))
	}
}
