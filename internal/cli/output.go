package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mgutz/ansi"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Цвета строк статуса шагов.
var (
	colorChanged = ansi.ColorFunc("green")
	colorSkipped = ansi.ColorFunc("cyan")
	colorWarned  = ansi.ColorFunc("yellow")
	colorFailed  = ansi.ColorFunc("red+b")
)

// Output управляет форматированием вывода CLI.
type Output struct {
	jsonMode bool
	w        io.Writer // stdout для данных
	errW     io.Writer // stderr для сообщений
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        os.Stdout,
		errW:     os.Stderr,
	}
}

// Print выводит данные: таблицу или JSON в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит данные в виде таблицы через tabwriter.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	// Заголовки
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	// Разделитель
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	// Строки данных
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

// Step выводит цветную строку статуса одного шага.
//
//	changed  ensure-venv          1.2s
//	skipped  check-runtime        3ms
func (o *Output) Step(rec domain.StepRecord) {
	if o.jsonMode {
		return
	}

	elapsed := roundDuration(rec.Duration)

	var line string
	switch rec.Outcome {
	case domain.StepChanged:
		line = colorChanged(fmt.Sprintf("changed  %-20s %s", rec.Name, elapsed))
	case domain.StepSkipped:
		line = colorSkipped(fmt.Sprintf("skipped  %-20s %s", rec.Name, elapsed))
	case domain.StepWarned:
		line = colorWarned(fmt.Sprintf("warned   %-20s %s", rec.Name, rec.Error))
	case domain.StepFailed:
		line = colorFailed(fmt.Sprintf("failed   %-20s %s", rec.Name, rec.Error))
	}
	fmt.Fprintln(o.errW, line)
}

// Summary выводит итоговую сводку после успешного deploy.
func (o *Output) Summary(spec domain.DeploySpec) {
	if o.jsonMode {
		return
	}
	fmt.Fprintln(o.errW)
	fmt.Fprintln(o.errW, colorChanged("Deploy succeeded"))
	fmt.Fprintf(o.errW, "  Service:  %s\n", spec.ServiceName)
	fmt.Fprintf(o.errW, "  Path:     %s\n", spec.AppDir)
	fmt.Fprintf(o.errW, "  Address:  http://localhost:%d\n", spec.Port)
}

// Failure выводит итоговое сообщение о неудаче.
func (o *Output) Failure(err error) {
	if o.jsonMode {
		return
	}
	fmt.Fprintln(o.errW)
	fmt.Fprintln(o.errW, colorFailed("Deploy failed: "+err.Error()))
}

// roundDuration округляет длительность для вывода:
// секунды до 0.1s, меньшее — до миллисекунд.
func roundDuration(d time.Duration) time.Duration {
	if d >= time.Second {
		return d.Round(100 * time.Millisecond)
	}
	return d.Round(time.Millisecond)
}
