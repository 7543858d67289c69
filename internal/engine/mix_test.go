package engine

import "testing"

func TestResolveGainsNoSolo(t *testing.T) {
	a := NewTrack(1, "A")
	a.SetVolume(0.8)
	b := NewTrack(2, "B")
	b.SetMuted(true)

	gains := ResolveGains([]*Track{a, b})

	if !almostEqual(gains[1], 0.8) {
		t.Errorf("Без solo дорожка должна звучать со своей громкостью, получено %v", gains[1])
	}
	if gains[2] != 0 {
		t.Errorf("Заглушенная дорожка должна молчать, получено %v", gains[2])
	}
}

// Матрица solo/mute из спецификации поведения: при активном solo звучат
// только solo-дорожки, mute побеждает всегда
func TestResolveGainsSoloMatrix(t *testing.T) {
	a := NewTrack(1, "A") // solo
	a.SetVolume(0.7)
	a.SetSolo(true)
	b := NewTrack(2, "B") // muted
	b.SetMuted(true)
	c := NewTrack(3, "C") // обычная

	gains := ResolveGains([]*Track{a, b, c})

	if !almostEqual(gains[1], 0.7) {
		t.Errorf("Solo-дорожка должна звучать с громкостью 0.7, получено %v", gains[1])
	}
	if gains[2] != 0 {
		t.Errorf("Заглушенная дорожка должна молчать при активном solo, получено %v", gains[2])
	}
	if gains[3] != 0 {
		t.Errorf("Не-solo дорожка должна молчать при активном solo, получено %v", gains[3])
	}
}

// Mute побеждает даже на дорожке с поднятым solo
func TestResolveGainsMutedSolo(t *testing.T) {
	a := NewTrack(1, "A")
	a.SetSolo(true)
	a.SetMuted(true)
	b := NewTrack(2, "B")

	gains := ResolveGains([]*Track{a, b})

	if gains[1] != 0 {
		t.Errorf("Заглушенная solo-дорожка должна молчать, получено %v", gains[1])
	}
	if gains[2] != 0 {
		t.Errorf("Не-solo дорожка должна молчать при активном solo, получено %v", gains[2])
	}
}

// Разрешение микса идемпотентно: повторный вызов дает тот же результат
func TestResolveGainsIdempotent(t *testing.T) {
	a := NewTrack(1, "A")
	a.SetSolo(true)
	b := NewTrack(2, "B")
	b.SetMuted(true)
	tracks := []*Track{a, b}

	first := ResolveGains(tracks)
	second := ResolveGains(tracks)

	for id, gain := range first {
		if second[id] != gain {
			t.Errorf("Повторное разрешение для дорожки %d дало %v вместо %v",
				id, second[id], gain)
		}
	}
}
