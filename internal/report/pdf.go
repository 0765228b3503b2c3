package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/go-pdf/fpdf"

	"nutiai.com/nutiai-server/internal/models"
)

const (
	margin    = 20.0
	textWidth = 170.0
	dateShown = "02/01/2006"
)

// Slots are printed in the order a day is eaten, snack after breakfast.
var exportOrder = []models.MealType{models.Breakfast, models.Snack, models.Lunch, models.Dinner}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MealLine renders one plan slot.
func MealLine(t models.MealType, d models.MealDetail) string {
	return fmt.Sprintf("%s: %s (%skcal | P: %sg | C: %sg | G: %sg)",
		t.Label(), d.Description, num(d.Calories), num(d.Protein), num(d.Carbs), num(d.Fats))
}

// ExerciseLine renders the i-th (1-based) exercise of a session.
func ExerciseLine(i int, e models.Exercise) string {
	return fmt.Sprintf("%d. %s | %d séries x %s (Descanso: %s)", i, e.Name, e.Sets, e.Reps, e.Rest)
}

var spaces = regexp.MustCompile(`\s+`)

// Filename is the download name for an exported document.
func Filename(name string) string {
	return spaces.ReplaceAllString(name, "_") + ".pdf"
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument() *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) header(title, name string, created string) {
	d.pdf.SetFont("Helvetica", "B", 22)
	d.pdf.SetTextColor(16, 185, 129)
	d.pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(100, 116, 139)
	d.pdf.CellFormat(0, 6, d.tr(fmt.Sprintf("%s | Gerado em: %s", name, created)), "", 1, "L", false, 0, "")

	d.pdf.Ln(4)
	d.pdf.SetDrawColor(226, 232, 240)
	y := d.pdf.GetY()
	d.pdf.Line(margin, y, margin+textWidth, y)
	d.pdf.Ln(8)
}

func (d *document) section(text string, size float64, r, g, b int) {
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.SetTextColor(r, g, b)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *document) line(text string, size, height float64) {
	d.pdf.SetFont("Helvetica", "", size)
	d.pdf.MultiCell(textWidth, height, d.tr(text), "", "L", false)
}

func (d *document) write(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return d.pdf.Output(w)
}

// DietPDF writes a saved diet as a paginated plan.
func DietPDF(w io.Writer, diet models.SavedDiet) error {
	d := newDocument()
	d.header("NutiAI - Plano Alimentar", diet.Name, diet.CreatedAt.Format(dateShown))

	d.section("Metas Diárias:", 14, 30, 41, 59)
	d.pdf.SetTextColor(30, 41, 59)
	d.line(fmt.Sprintf("Calorias: %s kcal    Proteinas: %sg    Carbos: %sg    Gorduras: %sg",
		num(diet.Targets.Calories), num(diet.Targets.Protein), num(diet.Targets.Carbs), num(diet.Targets.Fats)), 11, 6)
	d.pdf.Ln(6)

	for _, day := range diet.Days {
		d.section(day.DayName, 14, 16, 185, 129)
		d.pdf.SetTextColor(30, 41, 59)
		for _, t := range exportOrder {
			detail, _ := day.Slot(t)
			d.line(MealLine(t, detail), 9, 5)
			d.pdf.Ln(2)
		}
		d.pdf.Ln(5)
	}
	return d.write(w)
}

// WorkoutPDF writes a saved workout, one section per session.
func WorkoutPDF(w io.Writer, workout models.SavedWorkout) error {
	d := newDocument()
	d.header("NutiAI - Seu Treino Inteligente", workout.Name, workout.CreatedAt.Format(dateShown))

	for _, s := range workout.Sessions {
		d.section(fmt.Sprintf("%s - Foco: %s", s.DayName, s.Focus), 16, 30, 41, 59)
		d.pdf.SetTextColor(71, 85, 105)
		for i, e := range s.Exercises {
			d.line(ExerciseLine(i+1, e), 10, 7)
		}
		d.pdf.Ln(5)
	}
	return d.write(w)
}
