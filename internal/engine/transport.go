package engine

import (
	"context"
	"math"
	"time"
)

// State представляет состояние транспорта
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String возвращает имя состояния для уведомлений и логов
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// positionTickInterval — период цикла уведомлений о позиции
const positionTickInterval = 100 * time.Millisecond

// Play запускает воспроизведение с текущего курсора. Если транспорт уже
// играет — no-op. После Stop курсор равен нулю, после Pause — позиции паузы,
// поэтому оба случая сводятся к одному пересчету эпохи.
func (e *Engine) Play() error {
	e.mu.Lock()
	if e.state == Playing {
		e.mu.Unlock()
		return nil
	}
	if !e.device.Ready() {
		e.mu.Unlock()
		return ErrDeviceNotReady
	}

	now := e.device.Now()
	e.epoch = now - e.position
	e.state = Playing
	e.scheduler.Reschedule(e.tracks, e.position, now)

	ctx, cancel := context.WithCancel(context.Background())
	e.loopCancel = cancel
	go e.notifyLoop(ctx)
	e.mu.Unlock()

	e.notifyState(Playing)
	return nil
}

// Pause приостанавливает воспроизведение, замораживая курсор на текущей
// позиции. Валидна только из Playing; иначе — no-op.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return
	}

	e.position = e.device.Now() - e.epoch
	e.scheduler.CancelAll()
	e.stopLoopLocked()
	e.state = Paused
	e.mu.Unlock()

	e.notifyState(Paused)
}

// Stop останавливает воспроизведение из любого состояния и сбрасывает
// курсор в ноль. Уведомление о нулевой позиции отправляется безусловно.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.scheduler.CancelAll()
	e.stopLoopLocked()
	changed := e.state != Stopped
	e.state = Stopped
	e.position = 0
	e.mu.Unlock()

	if changed {
		e.notifyState(Stopped)
	}
	e.notifyPosition(0)
}

// Seek переносит курсор на позицию t (секунды, ограничивается нулем снизу).
// При активном воспроизведении сначала отменяются выданные команды, затем
// выдается свежий набор с новой позиции.
func (e *Engine) Seek(t float64) {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}

	e.mu.Lock()
	wasPlaying := e.state == Playing
	if wasPlaying {
		e.scheduler.CancelAll()
	}
	e.position = t
	if e.device.Ready() {
		now := e.device.Now()
		e.epoch = now - t
		if wasPlaying {
			e.scheduler.Reschedule(e.tracks, t, now)
		}
	}
	e.mu.Unlock()

	e.notifyPosition(t)
}

// State возвращает состояние транспорта
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Position возвращает логическую позицию воспроизведения в секундах
func (e *Engine) Position() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == Playing {
		return e.device.Now() - e.epoch
	}
	return e.position
}

// stopLoopLocked детерминированно останавливает цикл уведомлений
func (e *Engine) stopLoopLocked() {
	if e.loopCancel != nil {
		e.loopCancel()
		e.loopCancel = nil
	}
}

// notifyLoop раз в тик читает часы устройства, выводит из них логическую
// позицию и уведомляет подписчиков. Завершается при отмене контекста
// (Pause/Stop) или выходе из состояния Playing.
func (e *Engine) notifyLoop(ctx context.Context) {
	ticker := time.NewTicker(positionTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.RLock()
			if e.state != Playing {
				e.mu.RUnlock()
				return
			}
			position := e.device.Now() - e.epoch
			e.mu.RUnlock()

			e.notifyPosition(position)
		}
	}
}
