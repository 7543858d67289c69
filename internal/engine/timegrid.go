package engine

import (
	"fmt"
	"math"
)

// beatsPerBar — размер такта; аранжировщик работает в 4/4
const beatsPerBar = 4

// TimeGrid выполняет темпо-зависимую квантизацию времени и форматирование
// позиции в виде такт:доля:тик. Чистая функция от (секунды, темп).
type TimeGrid struct {
	Tempo float64 // BPM
}

// SecondsPerBeat возвращает длительность одной доли в секундах
func (g TimeGrid) SecondsPerBeat() float64 {
	return 60.0 / g.Tempo
}

// Snap притягивает момент времени t к ближайшему узлу сетки.
// fraction задает шаг сетки в долях: 1 — доля, 0.5 — восьмая, 4 — такт.
// Идемпотентна: Snap(Snap(t)) == Snap(t).
func (g TimeGrid) Snap(t, fraction float64) float64 {
	interval := g.SecondsPerBeat() * fraction
	if interval <= 0 {
		return t
	}
	return math.Round(t/interval) * interval
}

// FormatPosition форматирует позицию в секундах как "BBB:BB:TTT"
// (такт, доля, тики). Такты и доли нумеруются с единицы.
func (g TimeGrid) FormatPosition(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalBeats := seconds * g.Tempo / 60.0
	bars := int(totalBeats/beatsPerBar) + 1
	beats := int(math.Mod(totalBeats, beatsPerBar)) + 1
	ticks := int(math.Mod(totalBeats, 1) * 1000)
	return fmt.Sprintf("%03d:%02d:%03d", bars, beats, ticks)
}
