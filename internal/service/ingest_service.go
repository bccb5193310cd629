package service

import (
	"sync"

	"github.com/pixelpulse/internal/agent"
	"github.com/pixelpulse/internal/anonymize"
	"github.com/pixelpulse/internal/db"
	"github.com/pixelpulse/internal/geo"
	"github.com/sirupsen/logrus"
)

const (
	defaultIngestWorkers = 4
	defaultIngestQueue   = 1024
)

// ingestEvent 是一次待登记的曝光事件。
type ingestEvent struct {
	label    string
	address  string
	rawAgent string
	referrer string
}

// IngestService 异步登记访问。调用方在图片响应已经发出之后才触发，
// 因此这条链路是尽力而为的埋点：任何失败都只记日志，不重试、不上抛，
// 也绝不写入半条记录。
type IngestService struct {
	visits     *VisitService
	resolver   geo.Resolver
	classifier agent.Classifier
	salt       string
	log        *logrus.Logger

	queue chan ingestEvent
	wg    sync.WaitGroup
	once  sync.Once
}

// NewIngestService 创建登记服务并启动后台工作协程。
// workers/queueSize 传 0 时使用默认值。
func NewIngestService(visits *VisitService, resolver geo.Resolver, classifier agent.Classifier, salt string, workers, queueSize int, log *logrus.Logger) *IngestService {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultIngestQueue
	}

	s := &IngestService{
		visits:     visits,
		resolver:   resolver,
		classifier: classifier,
		salt:       salt,
		log:        log,
		queue:      make(chan ingestEvent, queueSize),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

// Enqueue 提交一次访问事件并立即返回，绝不阻塞调用方。
// 队列已满时直接丢弃该事件。
func (s *IngestService) Enqueue(label, address, rawAgent, referrer string) {
	event := ingestEvent{label: label, address: address, rawAgent: rawAgent, referrer: referrer}
	select {
	case s.queue <- event:
	default:
		s.log.WithField("label", label).Warn("ingest queue full, visit dropped")
	}
}

// Close 停止接收新事件并等待队列排空。
// 必须在 HTTP 服务停止接收请求之后调用。
func (s *IngestService) Close() {
	s.once.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

func (s *IngestService) worker() {
	defer s.wg.Done()
	for event := range s.queue {
		if err := s.register(event); err != nil {
			s.log.WithError(err).WithField("label", event.label).Error("failed to register visit")
		}
	}
}

// register 构建完整的访问记录并一次性落库。
// 地理与 UA 都是本地解析，不会阻塞在网络上。
func (s *IngestService) register(event ingestEvent) error {
	address := geo.NormalizeAddress(event.address)

	visit := &db.Visit{
		Label:  event.label,
		IPHash: anonymize.Token(address, s.salt),
	}

	location := s.resolver.Lookup(address)
	visit.Country = location.Country
	visit.City = location.City

	classification := s.classifier.Classify(event.rawAgent)
	visit.Browser = classification.Browser
	visit.OS = classification.OS
	visit.DeviceType = classification.DeviceType
	visit.IsBot = classification.IsBot
	visit.BotName = classification.BotName

	if event.rawAgent != "" {
		rawAgent := event.rawAgent
		visit.UserAgent = &rawAgent
	}
	if event.referrer != "" {
		referrer := event.referrer
		visit.Referer = &referrer
	}

	return s.visits.Append(visit)
}
