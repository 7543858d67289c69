package engine

import "testing"

func TestSnapIdempotent(t *testing.T) {
	grid := TimeGrid{Tempo: 120}

	for _, tc := range []float64{0, 0.1, 0.24, 0.26, 1.3, 7.77, 100.5} {
		once := grid.Snap(tc, 0.5)
		twice := grid.Snap(once, 0.5)
		if !almostEqual(once, twice) {
			t.Errorf("Snap должен быть идемпотентным: Snap(%v)=%v, Snap(Snap)=%v",
				tc, once, twice)
		}
	}
}

func TestSnapRounding(t *testing.T) {
	grid := TimeGrid{Tempo: 120} // доля = 0.5 с

	// 0.6 ближе к 0.5, чем к 1.0
	if got := grid.Snap(0.6, 1); !almostEqual(got, 0.5) {
		t.Errorf("Ожидалось 0.5, получено %v", got)
	}
	// 0.8 ближе к 1.0
	if got := grid.Snap(0.8, 1); !almostEqual(got, 1.0) {
		t.Errorf("Ожидалось 1.0, получено %v", got)
	}
}

func TestFormatPositionScenarios(t *testing.T) {
	grid := TimeGrid{Tempo: 120}

	// Сценарии из спецификации: на нуле — первый такт, первая доля;
	// через 2 секунды (4 доли) — второй такт
	if got := grid.FormatPosition(0); got != "001:01:000" {
		t.Errorf("Ожидалось 001:01:000, получено %s", got)
	}
	if got := grid.FormatPosition(2); got != "002:01:000" {
		t.Errorf("Ожидалось 002:01:000, получено %s", got)
	}
}

func TestFormatPositionTicks(t *testing.T) {
	grid := TimeGrid{Tempo: 120}

	// 0.25 с = половина доли = 500 тиков
	if got := grid.FormatPosition(0.25); got != "001:01:500" {
		t.Errorf("Ожидалось 001:01:500, получено %s", got)
	}
	// 1.5 с = 3 доли: первый такт, четвертая доля
	if got := grid.FormatPosition(1.5); got != "001:04:000" {
		t.Errorf("Ожидалось 001:04:000, получено %s", got)
	}
}

func TestFormatPositionMonotonic(t *testing.T) {
	grid := TimeGrid{Tempo: 97} // нарочно некруглый темп

	prev := grid.FormatPosition(0)
	for i := 1; i <= 2000; i++ {
		s := float64(i) * 0.01
		cur := grid.FormatPosition(s)
		if cur < prev {
			t.Fatalf("FormatPosition должен быть неубывающим: %s после %s (t=%v)",
				cur, prev, s)
		}
		prev = cur
	}
}

func TestFormatPositionNegative(t *testing.T) {
	grid := TimeGrid{Tempo: 120}

	// Отрицательное время отображается как начало таймлайна
	if got := grid.FormatPosition(-5); got != "001:01:000" {
		t.Errorf("Ожидалось 001:01:000, получено %s", got)
	}
}
