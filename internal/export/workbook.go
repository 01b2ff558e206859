// Package export renders stored plans as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"example.com/wellplan/internal/domain"
)

// Sheet names
const (
	SheetOverview = "Overview"
	SheetWorkout  = "Workout"
)

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook builds a workbook for plan: an overview sheet plus one sheet per
// diet day, or a single exercise sheet for workouts.
func Workbook(plan domain.Plan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	switch plan.Kind {
	case domain.PlanKindDiet:
		if plan.Diet == nil {
			return nil, fmt.Errorf("diet plan %s has no document", plan.ID)
		}
		writeDietOverview(f, styles, plan)
		for _, day := range domain.Weekdays {
			menu, ok := plan.Diet.MealPlan[day]
			if !ok {
				continue
			}
			if err := writeDay(f, styles, day, menu); err != nil {
				return nil, err
			}
		}
	case domain.PlanKindWorkout:
		if plan.Workout == nil {
			return nil, fmt.Errorf("workout plan %s has no document", plan.ID)
		}
		writeWorkoutOverview(f, styles, plan)
		if err := writeWorkout(f, styles, plan.Workout.WorkoutPlan); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown plan kind %q", plan.Kind)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write renders plan and streams the workbook to w.
func Write(w io.Writer, plan domain.Plan) error {
	f, err := Workbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// Filename suggests a download name for plan.
func Filename(plan domain.Plan) string {
	return fmt.Sprintf("%s-plan-%s.xlsx", plan.Kind, plan.CreatedAt.UTC().Format("2006-01-02"))
}

type styles struct {
	title  int
	label  int
	header int
}

func newStyles(f *excelize.File) (styles, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles{}, err
	}
	label, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E2EFDA"}, Pattern: 1},
	})
	if err != nil {
		return styles{}, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles{}, err
	}
	return styles{title: title, label: label, header: header}, nil
}

func writeTitle(f *excelize.File, s styles, sheet, title string) {
	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", "F1")
	f.SetCellStyle(sheet, "A1", "F1", s.title)
	f.SetRowHeight(sheet, 1, 30)
}

func writeInfo(f *excelize.File, s styles, sheet string, startRow int, info [][]string) {
	for i, row := range info {
		rowNum := startRow + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row[1])
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), s.label)
	}
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 60)
}

func writeHeader(f *excelize.File, s styles, sheet string, row int, columns []string) {
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, name)
		f.SetCellStyle(sheet, cell, cell, s.header)
	}
}

func planInfo(plan domain.Plan) [][]string {
	source := string(plan.Source)
	if plan.FallbackReason != "" {
		source = fmt.Sprintf("%s (%s)", plan.Source, plan.FallbackReason)
	}
	return [][]string{
		{"Created:", plan.CreatedAt.UTC().Format("2006-01-02 15:04")},
		{"Source:", source},
	}
}

func writeDietOverview(f *excelize.File, s styles, plan domain.Plan) {
	doc := plan.Diet
	writeTitle(f, s, SheetOverview, doc.Name)
	info := append(planInfo(plan),
		[]string{"Description:", doc.Description},
		[]string{"Daily calories:", fmt.Sprintf("%d kcal", doc.DailyCalories)},
		[]string{"Protein:", fmt.Sprintf("%d g", doc.Macros.ProteinG)},
		[]string{"Carbs:", fmt.Sprintf("%d g", doc.Macros.CarbsG)},
		[]string{"Fats:", fmt.Sprintf("%d g", doc.Macros.FatsG)},
	)
	writeInfo(f, s, SheetOverview, 3, info)
}

func writeDay(f *excelize.File, s styles, day string, menu domain.DayMenu) error {
	sheet := strings.ToUpper(day[:1]) + day[1:]
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	writeHeader(f, s, sheet, 1, []string{"Meal", "Name", "Foods", "Calories", "Protein (g)", "Carbs (g)", "Fats (g)"})
	for i, slot := range domain.MealSlots {
		meal, _ := menu.Slot(slot)
		row := i + 2
		values := []interface{}{slot, meal.Name, strings.Join(meal.Foods, ", "), meal.Calories, meal.ProteinG, meal.CarbsG, meal.FatsG}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	f.SetColWidth(sheet, "A", "B", 16)
	f.SetColWidth(sheet, "C", "C", 60)
	f.SetColWidth(sheet, "D", "G", 12)
	return nil
}

func writeWorkoutOverview(f *excelize.File, s styles, plan domain.Plan) {
	doc := plan.Workout
	session := doc.WorkoutPlan
	writeTitle(f, s, SheetOverview, doc.Name)
	info := append(planInfo(plan),
		[]string{"Description:", doc.Description},
		[]string{"Type:", session.Type},
		[]string{"Level:", session.Level},
		[]string{"Duration:", fmt.Sprintf("%d min", session.DurationMinutes)},
		[]string{"Estimated calories:", fmt.Sprintf("%d kcal", session.EstimatedCalories)},
		[]string{"Intensity:", fmt.Sprintf("%.2f", session.IntensityMultiplier)},
	)
	if session.Phase != "" {
		info = append(info, []string{"Phase:", string(session.Phase)})
	}
	for _, tip := range session.Tips {
		info = append(info, []string{"Tip:", tip})
	}
	writeInfo(f, s, SheetOverview, 3, info)
}

func writeWorkout(f *excelize.File, s styles, session domain.WorkoutSession) error {
	if _, err := f.NewSheet(SheetWorkout); err != nil {
		return err
	}

	writeHeader(f, s, SheetWorkout, 1, []string{"Segment", "Exercise", "Sets", "Reps", "Rest (s)", "Duration (s)", "Notes"})
	row := 2
	segments := []struct {
		name      string
		exercises []domain.Exercise
	}{
		{"warmup", session.Warmup},
		{"main", session.Main},
		{"cooldown", session.Cooldown},
	}
	for _, segment := range segments {
		for _, ex := range segment.exercises {
			values := []interface{}{segment.name, ex.Name, ex.Sets, ex.Reps, ex.RestSeconds, ex.DurationSeconds, ex.Notes}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetWorkout, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	f.SetColWidth(SheetWorkout, "A", "A", 12)
	f.SetColWidth(SheetWorkout, "B", "B", 32)
	f.SetColWidth(SheetWorkout, "G", "G", 40)
	return nil
}
