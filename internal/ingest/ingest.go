package ingest

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Series 가격 시계열 (시간순, 마지막 값 = 현재가)
type Series []float64

// Last 마지막 가격 (현재가)
func (s Series) Last() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// ErrEmptySeries 가격 데이터가 필요한 호출자가 빈 시계열을 받았을 때
var ErrEmptySeries = errors.New("price series is empty")

// LineStatus 라인 분류 결과
type LineStatus int

const (
	LineValid LineStatus = iota
	LineSkipped
)

// Line 한 줄의 분류 결과
type Line struct {
	Number int        // 1부터 시작
	Raw    string     // 원본 라인
	Status LineStatus // valid / skipped
	Value  float64    // Status == LineValid 일 때만 의미 있음
}

// Report 파싱 결과 + 라인별 분류
// ⭐ 운영 계약은 Series만 반환 (skip은 조용히 버림). Report는 테스트/CLI 진단용
type Report struct {
	Series Series
	Lines  []Line
}

// Skipped 건너뛴 라인 수
func (r Report) Skipped() int {
	n := 0
	for _, l := range r.Lines {
		if l.Status == LineSkipped {
			n++
		}
	}
	return n
}

// Parse 텍스트를 가격 시계열로 변환
// 각 라인의 첫 번째 필드만 사용, 숫자가 아니거나 유한하지 않으면 조용히 건너뜀
func Parse(text string) Series {
	return Classify(text).Series
}

// Classify 라인별로 valid/skipped를 분류
// 헤더 감지 없음: 숫자가 아닌 헤더도 같은 규칙으로 떨어진다
func Classify(text string) Report {
	text = strings.TrimSpace(text)
	if text == "" {
		return Report{Series: Series{}}
	}

	rawLines := strings.Split(text, "\n")
	report := Report{
		Series: make(Series, 0, len(rawLines)),
		Lines:  make([]Line, 0, len(rawLines)),
	}

	for i, raw := range rawLines {
		raw = strings.TrimSuffix(raw, "\r")
		line := Line{Number: i + 1, Raw: raw, Status: LineSkipped}

		if v, ok := parseFirstField(raw); ok {
			line.Status = LineValid
			line.Value = v
			report.Series = append(report.Series, v)
		}

		report.Lines = append(report.Lines, line)
	}

	return report
}

// parseFirstField 첫 번째 콤마 앞 필드를 유한한 float로 파싱
func parseFirstField(raw string) (float64, bool) {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ReadFile 파일 전체를 메모리로 읽은 뒤 분류 (스트리밍 없음)
func ReadFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read price file: %w", err)
	}
	return Classify(string(data)), nil
}
