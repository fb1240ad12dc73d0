package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sankalp-edu/examhall-backend/internal/config"
	"github.com/sankalp-edu/examhall-backend/internal/database"
	"github.com/sankalp-edu/examhall-backend/internal/logger"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/repository"
	"github.com/sankalp-edu/examhall-backend/internal/service"
)

// Seeds a small published demo exam plus a handful of students, enough to
// exercise the full join/attempt/submit path from a fresh database.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	adminService := service.NewAdminService(adminRepo, authService)
	examService := service.NewExamService(examRepo, questionRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, examRepo)

	fmt.Println("=== Seeding demo data ===")

	admin, err := adminService.Create(ctx, "Demo Examiner", "examiner@examhall.local", "examiner123", model.RoleExaminer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}
	fmt.Printf("Admin: %s (id %d)\n", admin.Email, admin.ID)

	for i := 1; i <= 5; i++ {
		student, err := studentService.Create(ctx, &model.CreateStudentRequest{
			Name:       fmt.Sprintf("Demo Student %d", i),
			RollNumber: fmt.Sprintf("DEMO-%03d", i),
			Password:   "student123",
		})
		if err != nil {
			log.Fatal().Err(err).Int("n", i).Msg("Failed to create student")
		}
		fmt.Printf("Student: %s / student123\n", student.RollNumber)
	}

	exam := &model.Exam{
		Title:           "Demo Mock Test 1",
		AuthorID:        admin.ID,
		DurationMinutes: 30,
		AccessCode:      "DEMO2026",
	}
	if err := examService.Create(ctx, exam); err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}

	if err := questionService.ReplaceAll(ctx, admin.ID, exam.ID, demoQuestions()); err != nil {
		log.Fatal().Err(err).Msg("Failed to insert questions")
	}

	if err := examService.Publish(ctx, exam.ID, admin.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish exam")
	}

	fmt.Printf("\nExam %q published, access code: %s\n", exam.Title, exam.AccessCode)
}

func demoQuestions() []model.Question {
	text := func(s string) model.ContentBlock {
		return model.ContentBlock{Type: model.BlockText, Value: s}
	}
	latex := func(s string) model.ContentBlock {
		return model.ContentBlock{Type: model.BlockLaTeX, Value: s}
	}
	textOpt := func(s string) model.Option {
		return model.Option{text(s)}
	}

	return []model.Question{
		{
			Section: "Physics",
			Type:    model.QuestionTypeSingleChoice,
			Contents: []model.ContentBlock{
				latex(`A body of mass $m = 2\,\text{kg}$ moves with velocity $v = 3\,\text{m/s}$.\\What is its kinetic energy?`),
			},
			Options:        []model.Option{textOpt("6 J"), textOpt("9 J"), textOpt("12 J"), textOpt("18 J")},
			CorrectAnswer:  "B",
			Topic:          "Work and Energy",
			Difficulty:     "easy",
			MarksCorrect:   4,
			MarksIncorrect: -1,
			OrderNum:       1,
		},
		{
			Section: "Physics",
			Type:    model.QuestionTypeSingleChoice,
			Contents: []model.ContentBlock{
				text("Identify the circuit element from the diagram."),
				{Type: model.BlockImage, Value: "https://cdn.examhall.local/demo/circuit.png", Width: 320, Height: 180},
			},
			Options:        []model.Option{textOpt("Resistor"), textOpt("Capacitor"), textOpt("Inductor"), textOpt("Diode")},
			CorrectAnswer:  "D",
			Topic:          "Electronics",
			Difficulty:     "medium",
			MarksCorrect:   4,
			MarksIncorrect: -1,
			OrderNum:       2,
		},
		{
			Section: "Physics",
			Type:    model.QuestionTypeNumerical,
			Contents: []model.ContentBlock{
				latex(`Evaluate $\int_0^2 3x^2\,dx$ and enter the value.`),
			},
			CorrectAnswer:  "8",
			Topic:          "Calculus",
			Difficulty:     "medium",
			MarksCorrect:   4,
			MarksIncorrect: 0,
			OrderNum:       3,
		},
		{
			Section: "Chemistry",
			Type:    model.QuestionTypeSingleChoice,
			Contents: []model.ContentBlock{
				text("Which element has the highest electronegativity in the table below?"),
				{Type: model.BlockTable, Rows: [][]string{
					{"Element", "Group", "Period"},
					{"F", "17", "2"},
					{"Cl", "17", "3"},
					{"O", "16", "2"},
				}},
			},
			Options:        []model.Option{textOpt("F"), textOpt("Cl"), textOpt("O"), textOpt("N")},
			CorrectAnswer:  "A",
			Topic:          "Periodic Table",
			Difficulty:     "easy",
			MarksCorrect:   4,
			MarksIncorrect: -1,
			OrderNum:       4,
		},
		{
			Section: "Chemistry",
			Type:    model.QuestionTypeSingleChoice,
			Contents: []model.ContentBlock{
				latex(`The equilibrium constant for $\text{N}_2 + 3\text{H}_2 \rightleftharpoons 2\text{NH}_3$ depends on:`),
			},
			Options:        []model.Option{textOpt("Pressure"), textOpt("Temperature"), textOpt("Catalyst"), textOpt("Concentration")},
			CorrectAnswer:  "B",
			Topic:          "Equilibrium",
			Difficulty:     "medium",
			MarksCorrect:   4,
			MarksIncorrect: -1,
			OrderNum:       5,
		},
	}
}
