package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/tourbase/TB-AdmissionService/internal/config"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	capacityRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/capacity"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Генератор демо-расписаний. Данные детерминированы: один и тот же seed
// всегда дает одни и те же строки шаблона, чтобы демо-стенды и локальные
// окружения совпадали
func main() {
	var (
		configPath = flag.String("config", "config.toml", "путь к конфигурации")
		tenantID   = flag.Int64("tenant", 1, "ID тенанта")
		activities = flag.Int64("activities", 5, "количество активностей")
		seed       = flag.Int64("seed", 42, "seed генератора")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Printf("Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	repo := capacityRepo.NewRepository(db)
	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	created := 0
	for activityID := int64(1); activityID <= *activities; activityID++ {
		entries := generateTemplate(rng, *tenantID, activityID)
		for _, entry := range entries {
			if _, err := repo.CreateTemplateEntry(ctx, entry); err != nil {
				fmt.Printf("Failed to create template entry (activity=%d, weekday=%d, time=%s): %v\n",
					activityID, entry.Weekday, entry.StartTime, err)
				os.Exit(1)
			}
			created++
		}
	}

	fmt.Printf("Seeded %d template entries for %d activities (tenant=%d, seed=%d)\n",
		created, *activities, *tenantID, *seed)
}

// generateTemplate строит недельное расписание одной активности
// Рабочие дни выбираются подряд со случайного дня недели, время сеансов
// кратно двум часам от 08:00, вместимость кратна пяти
func generateTemplate(rng *rand.Rand, tenantID, activityID int64) []*domain.CapacityTemplateEntry {
	openDays := 4 + rng.Intn(3)    // 4-6 рабочих дней в неделю
	firstDay := rng.Intn(7)        // день начала рабочей недели
	sessions := 2 + rng.Intn(3)    // 2-4 сеанса в день
	firstHour := 8 + rng.Intn(3)   // первый сеанс в 08:00-10:00
	seats := 5 * (2 + rng.Intn(9)) // 10-50 мест

	entries := make([]*domain.CapacityTemplateEntry, 0, openDays*sessions)
	for d := 0; d < openDays; d++ {
		weekday := time.Weekday((firstDay + d) % 7)
		for s := 0; s < sessions; s++ {
			hour := firstHour + s*2
			entries = append(entries, &domain.CapacityTemplateEntry{
				TenantID:   tenantID,
				ActivityID: activityID,
				Weekday:    weekday,
				StartTime:  types.TimeString(fmt.Sprintf("%02d:00", hour)),
				Seats:      seats,
			})
		}
	}

	return entries
}
