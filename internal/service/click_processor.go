package service

import (
	"context"
	"sync"
	"time"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
	"go.uber.org/zap"
)

// Константы worker pool
const (
	defaultWorkerCount   = 3    // Количество воркеров
	defaultChannelBuffer = 1000 // Размер буфера канала
	maxRetries           = 3    // Максимальное количество попыток записи
)

// ClickProcessor асинхронно пишет аудит переходов. Потеря события аудита
// не влияет на счётчик кликов ссылки: он инкрементируется синхронно в БД.
type ClickProcessor interface {
	Start()
	Stop()
	Record(ctx context.Context, event *models.ClickEvent) error
	Stats(ctx context.Context, linkID string) (*models.ClickStats, error)
}

// clickProcessor реализация процессора кликов с использованием Worker Pool
type clickProcessor struct {
	clickRepo    repository.ClickRepository
	logger       *zap.Logger
	clickChannel chan *models.ClickEvent
	workerCount  int
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewClickProcessor создаёт новый экземпляр процессора кликов
func NewClickProcessor(clickRepo repository.ClickRepository, logger *zap.Logger) ClickProcessor {
	return &clickProcessor{
		clickRepo:    clickRepo,
		logger:       logger,
		clickChannel: make(chan *models.ClickEvent, defaultChannelBuffer),
		workerCount:  defaultWorkerCount,
	}
}

// Start запускает worker pool
func (p *clickProcessor) Start() {
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.logger.Info("Запуск воркеров процессора кликов", zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop корректно останавливает worker pool
func (p *clickProcessor) Stop() {
	p.logger.Info("Остановка процессора кликов...")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("Процессор кликов остановлен")
}

// worker обрабатывает события кликов из канала
func (p *clickProcessor) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Воркер кликов запущен", zap.Int("id", id))

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("Воркер кликов остановлен", zap.Int("id", id))
			return

		case event, ok := <-p.clickChannel:
			if !ok {
				return
			}
			p.processClick(event)
		}
	}
}

// processClick записывает одно событие аудита с retry логикой
func (p *clickProcessor) processClick(event *models.ClickEvent) {
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()

	click := &models.Click{
		LinkID:    event.LinkID,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Referer:   event.Referer,
		ClickedAt: time.Now(),
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		if err = p.clickRepo.RecordClick(ctx, click); err == nil {
			return
		}
		if i < maxRetries-1 {
			p.logger.Debug("Повторная попытка записи клика",
				zap.String("link_id", event.LinkID),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
		}
	}

	p.logger.Error("Не удалось записать клик после всех попыток",
		zap.String("link_id", event.LinkID),
		zap.Error(err),
	)
}

// Record отправляет событие клика в worker pool (неблокирующая операция)
func (p *clickProcessor) Record(ctx context.Context, event *models.ClickEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.clickChannel <- event:
		return nil
	default:
		// Канал заполнен: событие аудита теряем, запрос не блокируем
		p.logger.Warn("Буфер канала кликов заполнен, событие потеряно",
			zap.String("link_id", event.LinkID),
		)
		return nil
	}
}

// Stats возвращает агрегаты аудита по одной ссылке
func (p *clickProcessor) Stats(ctx context.Context, linkID string) (*models.ClickStats, error) {
	return p.clickRepo.GetStats(ctx, linkID)
}
