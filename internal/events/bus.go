package events

import "sync"

// Bus 是进程内的简单 pub-sub，用于把语音回调等异步通知送回 UI 事件循环。
// 订阅者阻塞时消息被丢弃。
type Bus struct {
	mu     sync.Mutex
	subs   []chan any
	closed bool
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe() <-chan any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan any)
		close(ch)
		return ch
	}
	ch := make(chan any, 32)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(evt any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			log.WithField("event", evt).Warn("bus subscriber is full, dropping event")
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.closed = true
}
