package event

import (
	"sync"

	"github.com/blues/lps/internal/logger"
	"github.com/blues/lps/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Handler 通知处理函数
type Handler func(evt model.Event)

// Dispatcher 通知分发器，从数据库捞取未处理的通知记录，
// 经协程池投递给订阅方后标记已处理
type Dispatcher struct {
	db       *gorm.DB
	pool     *ants.Pool
	mu       sync.RWMutex
	handlers []Handler
}

// NewDispatcher 创建通知分发器
func NewDispatcher(db *gorm.DB, poolSize int) (*Dispatcher, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{db: db, pool: pool}, nil
}

// Subscribe 订阅全部通知
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// DispatchPending 投递未处理的通知，返回投递数量
func (d *Dispatcher) DispatchPending(batchSize int) (int, error) {
	var events []model.Event
	if err := d.db.Where("processed = ?", false).
		Order("id ASC").
		Limit(batchSize).
		Find(&events).Error; err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	var wg sync.WaitGroup
	for i := range events {
		evt := events[i]
		wg.Add(1)
		err := d.pool.Submit(func() {
			defer wg.Done()
			for _, h := range handlers {
				h(evt)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit event %d to pool: %v", evt.Id, err)
			continue
		}
	}
	wg.Wait()

	ids := make([]int64, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].Id)
	}
	if err := d.db.Model(&model.Event{}).Where("id IN ?", ids).
		Update("processed", true).Error; err != nil {
		return 0, err
	}
	return len(events), nil
}

// Release 关闭协程池
func (d *Dispatcher) Release() {
	d.pool.Release()
}
