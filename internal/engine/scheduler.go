package engine

// Scheduler переводит "играть с логической позиции P с момента D по часам
// устройства" в конкретный набор отменяемых команд воспроизведения — по одной
// на каждый клип, чье играбельное окно пересекается с [P, ∞).
type Scheduler struct {
	device Device

	// Выданные и еще не отмененные команды, по ID дорожки
	pending map[int][]Playback
}

// NewScheduler создает планировщик поверх устройства воспроизведения
func NewScheduler(device Device) *Scheduler {
	return &Scheduler{
		device:  device,
		pending: make(map[int][]Playback),
	}
}

// Reschedule отменяет все ранее выданные команды и выдает свежий набор
// для позиции position, считая что воспроизведение начинается в момент
// deviceNow по часам устройства. Отмена всегда предшествует выдаче,
// поэтому два набора команд для одной дорожки не могут звучать одновременно.
func (s *Scheduler) Reschedule(tracks []*Track, position, deviceNow float64) {
	s.CancelAll()

	gains := ResolveGains(tracks)
	for _, t := range tracks {
		// Дорожки с нулевым эффективным гейном пропускаются целиком:
		// команды для них не выдаются вовсе
		if gains[t.ID] <= 0 || t.Sink() == nil {
			continue
		}
		for _, c := range t.Clips() {
			// Клип целиком в прошлом
			if c.End() <= position {
				continue
			}

			var deviceStart, sourceOffset float64
			if c.StartTime >= position {
				// Клип еще не начался: стартуем в будущем с начала участка
				deviceStart = deviceNow + (c.StartTime - position)
				sourceOffset = c.Offset
			} else {
				// Клип уже звучит: стартуем сразу, с середины участка
				deviceStart = deviceNow
				sourceOffset = c.Offset + (position - c.StartTime)
			}

			playable := c.Duration - (sourceOffset - c.Offset)
			if playable <= 0 {
				continue
			}

			playback := s.device.Play(t.Sink(), PlayCommand{
				Buffer:       c.Buffer(),
				DeviceStart:  deviceStart,
				SourceOffset: sourceOffset,
				Duration:     playable,
				Gain:         c.Gain,
			})
			if playback != nil {
				s.pending[t.ID] = append(s.pending[t.ID], playback)
			}
		}
	}
}

// CancelAll отменяет все выданные команды. Отмена завершенных команд
// идемпотентна, поэтому вызов безопасен в любой момент.
func (s *Scheduler) CancelAll() {
	for id, playbacks := range s.pending {
		for _, p := range playbacks {
			p.Cancel()
		}
		delete(s.pending, id)
	}
}

// CancelTrack отменяет команды одной дорожки (используется при ее удалении)
func (s *Scheduler) CancelTrack(trackID int) {
	for _, p := range s.pending[trackID] {
		p.Cancel()
	}
	delete(s.pending, trackID)
}

// PendingCount возвращает количество невыполненных команд дорожки
func (s *Scheduler) PendingCount(trackID int) int {
	return len(s.pending[trackID])
}
