package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yourusername/trivia-backend/internal/config"
	"github.com/yourusername/trivia-backend/internal/domain/entity"
	pgRepo "github.com/yourusername/trivia-backend/internal/repository/postgres"
	"github.com/yourusername/trivia-backend/internal/service"
	"github.com/yourusername/trivia-backend/pkg/database"
)

var (
	configPath     string
	migrationsPath string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Управление схемой базы данных trivia-backend",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Путь к config.yaml (env: CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Источник миграций, например file://migrations (по умолчанию из конфига)")

	rootCmd.AddCommand(newUpCmd())
	rootCmd.AddCommand(newDownCmd())
	rootCmd.AddCommand(newForceCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSeedCmd())

	return rootCmd
}

// openDB подключается к БД через gorm (нужен репозиториям для seed)
func openDB() (*gorm.DB, error) {
	dbCfg, err := config.LoadDatabase(configPath)
	if err != nil {
		return nil, err
	}
	return database.NewPostgresDB(dbCfg.PostgresConnectionString(), false)
}

// withMigrator открывает соединение через lib/pq, выполняет fn и закрывает всё за собой
func withMigrator(fn func(m *migrateV4.Migrate) error) error {
	dbCfg, err := config.LoadDatabase(configPath)
	if err != nil {
		return err
	}
	if migrationsPath != "" {
		dbCfg.MigrationsPath = migrationsPath
	}

	sqlDB, err := sql.Open("postgres", dbCfg.PostgresConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	m, err := database.NewMigrator(sqlDB, dbCfg.MigrationsPath)
	if err != nil {
		return err
	}
	return fn(m)
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Применить все новые миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrateV4.Migrate) error {
				if err := m.Up(); err != nil {
					if errors.Is(err, migrateV4.ErrNoChange) {
						log.Println("Изменений нет, база данных уже актуальна.")
						return nil
					}
					return err
				}
				log.Println("Миграции успешно применены.")
				return nil
			})
		},
	}
}

func newDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Откатить последние миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be positive, got %d", steps)
			}
			return withMigrator(func(m *migrateV4.Migrate) error {
				if err := m.Steps(-steps); err != nil {
					return err
				}
				log.Printf("Откачено миграций: %d", steps)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Сколько миграций откатить")
	return cmd
}

func newForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Принудительно выставить версию и снять флаг dirty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withMigrator(func(m *migrateV4.Migrate) error {
				if err := m.Force(version); err != nil {
					return err
				}
				log.Printf("Версия принудительно установлена в %d", version)
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать текущую версию схемы",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrateV4.Migrate) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrateV4.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	}
}

// seedQuestion - формат файла вопросов для seed
type seedQuestion struct {
	Text             string   `json:"text"`
	Category         string   `json:"category"`
	Difficulty       int      `json:"difficulty"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Загрузить вопросы из JSON файла в банк вопросов",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			sqlDB, err := database.GetSQLDB(db)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			// Кеш категорий живёт в Redis API сервера и истечёт по TTL
			questionService, err := service.NewQuestionService(pgRepo.NewQuestionRepo(db), nil, 1, 1, 0)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			if err := questionService.Import(ctx, questions); err != nil {
				return err
			}

			log.Printf("Загружено вопросов: %d", len(questions))
			return nil
		},
	}
}

func readSeedFile(path string) ([]entity.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var items []seedQuestion
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	questions := make([]entity.Question, 0, len(items))
	for _, item := range items {
		questions = append(questions, entity.Question{
			Text:             item.Text,
			Category:         item.Category,
			Difficulty:       item.Difficulty,
			CorrectAnswer:    item.CorrectAnswer,
			IncorrectAnswers: entity.StringArray(item.IncorrectAnswers),
		})
	}
	return questions, nil
}
