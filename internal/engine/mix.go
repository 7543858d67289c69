package engine

// ResolveGains вычисляет эффективный гейн каждой дорожки с учетом глобального
// состояния solo/mute. Чистая функция, не имеет побочных эффектов; движок
// сам доставляет результат в привязанные выходные каналы.
//
// Правило: mute всегда побеждает. Если хотя бы одна дорожка в solo, звучат
// только solo-дорожки, но заглушенная дорожка молчит даже с поднятым solo.
func ResolveGains(tracks []*Track) map[int]float64 {
	hasSolo := false
	for _, t := range tracks {
		if t.Solo {
			hasSolo = true
			break
		}
	}

	gains := make(map[int]float64, len(tracks))
	for _, t := range tracks {
		switch {
		case t.Muted:
			gains[t.ID] = 0
		case hasSolo && !t.Solo:
			gains[t.ID] = 0
		default:
			gains[t.ID] = t.Volume
		}
	}
	return gains
}
