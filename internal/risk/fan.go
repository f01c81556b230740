package risk

// DefaultFanCap 팬 차트에 포함할 최대 경로 수
const DefaultFanCap = 20

// FanPoint 경로 위의 한 점
type FanPoint struct {
	T int     `json:"t"`
	Y float64 `json:"y"`
}

// FanSeries 경로 하나
type FanSeries []FanPoint

// Fan 팬 차트 데이터
type Fan struct {
	Series []FanSeries `json:"series"`
	Domain [2]int      `json:"domain"` // 시간축 [0, 첫 경로 길이], 경로가 없으면 [0, 0]
}

// FanSample 앞에서부터 min(limit, 행 수)개의 경로를 그대로 사용 (랜덤 샘플링 아님)
// 입력 행렬은 변경하지 않음
func FanSample(paths [][]float64, limit int) Fan {
	if limit <= 0 {
		limit = DefaultFanCap
	}

	n := len(paths)
	if n > limit {
		n = limit
	}

	fan := Fan{Series: make([]FanSeries, n)}
	for i := 0; i < n; i++ {
		row := paths[i]
		s := make(FanSeries, len(row))
		for t, y := range row {
			s[t] = FanPoint{T: t, Y: y}
		}
		fan.Series[i] = s
	}

	if n > 0 {
		fan.Domain[1] = len(paths[0])
	}
	return fan
}
