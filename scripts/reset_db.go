// Скрипт для сброса и пересоздания схемы БД.
// Запуск: go run scripts/reset_db.go

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

func main() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	fmt.Println("Connecting to database...")
	fmt.Printf("Host: %s\n", extractHost(connStr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	fmt.Println("Connected successfully!")

	commands := []string{
		// ЧАСТЬ 1: ПОЛНАЯ ОЧИСТКА БД
		"DROP TABLE IF EXISTS property_views CASCADE",
		"DROP TABLE IF EXISTS notifications CASCADE",
		"DROP TABLE IF EXISTS inquiries CASCADE",
		"DROP TABLE IF EXISTS favorites CASCADE",
		"DROP TABLE IF EXISTS saved_searches CASCADE",
		"DROP TABLE IF EXISTS search_preferences CASCADE",
		"DROP TABLE IF EXISTS properties CASCADE",
		"DROP TABLE IF EXISTS profiles CASCADE",
		"DROP FUNCTION IF EXISTS increment_property_views(UUID, UUID)",
		"DROP FUNCTION IF EXISTS increment_inquiry_count(UUID)",

		// ЧАСТЬ 2: СОЗДАНИЕ ТАБЛИЦ
		`CREATE TABLE IF NOT EXISTS profiles (
			profile_id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email                    TEXT UNIQUE NOT NULL,
			password_hash            TEXT NOT NULL,
			first_name               TEXT NOT NULL,
			last_name                TEXT NOT NULL,
			role                     TEXT NOT NULL DEFAULT 'tenant',
			phone                    TEXT,
			caretaker_phone          TEXT,
			display_phone_preference TEXT NOT NULL DEFAULT 'owner',
			is_verified              BOOLEAN NOT NULL DEFAULT FALSE,
			avatar_url               TEXT,
			created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS properties (
			property_id     UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			landlord_id     UUID NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			property_type   TEXT NOT NULL,
			location        TEXT NOT NULL,
			price           BIGINT NOT NULL,
			bedrooms        INT NOT NULL DEFAULT 0,
			bathrooms       DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_furnished    BOOLEAN NOT NULL DEFAULT FALSE,
			is_pet_friendly BOOLEAN NOT NULL DEFAULT FALSE,
			is_available    BOOLEAN NOT NULL DEFAULT TRUE,
			amenities       TEXT[] NOT NULL DEFAULT '{}',
			images          TEXT[] NOT NULL DEFAULT '{}',
			view_count      INT NOT NULL DEFAULT 0,
			inquiry_count   INT NOT NULL DEFAULT 0,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			user_id     UUID NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
			property_id UUID NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, property_id)
		)`,

		`CREATE TABLE IF NOT EXISTS inquiries (
			inquiry_id   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			property_id  UUID NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			sender_id    UUID NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
			receiver_id  UUID NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
			inquiry_type TEXT NOT NULL DEFAULT 'general',
			subject      TEXT NOT NULL,
			message      TEXT NOT NULL,
			is_read      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			notification_id     UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id             UUID NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
			title               TEXT NOT NULL,
			message             TEXT NOT NULL,
			type                TEXT NOT NULL DEFAULT 'info',
			related_property_id UUID REFERENCES properties(property_id) ON DELETE SET NULL,
			is_read             BOOLEAN NOT NULL DEFAULT FALSE,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS saved_searches (
			search_id        UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id          UUID NOT NULL REFERENCES profiles(profile_id) ON DELETE CASCADE,
			search_name      TEXT NOT NULL,
			search_criteria  JSONB NOT NULL,
			is_active        BOOLEAN NOT NULL DEFAULT TRUE,
			last_notified_at TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS search_preferences (
			user_id             UUID PRIMARY KEY REFERENCES profiles(profile_id) ON DELETE CASCADE,
			min_price           BIGINT,
			max_price           BIGINT,
			min_bedrooms        INT,
			max_bedrooms        INT,
			min_bathrooms       DOUBLE PRECISION,
			max_bathrooms       DOUBLE PRECISION,
			preferred_locations TEXT[] NOT NULL DEFAULT '{}',
			property_types      TEXT[] NOT NULL DEFAULT '{}',
			preferred_amenities TEXT[] NOT NULL DEFAULT '{}',
			is_furnished        BOOLEAN,
			is_pet_friendly     BOOLEAN,
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS property_views (
			property_id UUID NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			viewer_id   UUID REFERENCES profiles(profile_id) ON DELETE SET NULL,
			viewed_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// ЧАСТЬ 3: ИНДЕКСЫ
		"CREATE INDEX IF NOT EXISTS idx_properties_landlord ON properties(landlord_id)",
		"CREATE INDEX IF NOT EXISTS idx_properties_available ON properties(is_available, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_inquiries_receiver ON inquiries(receiver_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_inquiries_sender ON inquiries(sender_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_saved_searches_user ON saved_searches(user_id, created_at DESC)",

		// ЧАСТЬ 4: АТОМАРНЫЕ СЧЁТЧИКИ
		// Инкременты выполняются на стороне БД, чтобы исключить гонки между инстансами
		`CREATE OR REPLACE FUNCTION increment_property_views(p_property_id UUID, p_viewer_id UUID)
		RETURNS VOID AS $$
		BEGIN
			UPDATE properties SET view_count = view_count + 1 WHERE property_id = p_property_id;
			INSERT INTO property_views (property_id, viewer_id) VALUES (p_property_id, p_viewer_id);
		END;
		$$ LANGUAGE plpgsql`,

		`CREATE OR REPLACE FUNCTION increment_inquiry_count(p_property_id UUID)
		RETURNS VOID AS $$
		BEGIN
			UPDATE properties SET inquiry_count = inquiry_count + 1 WHERE property_id = p_property_id;
		END;
		$$ LANGUAGE plpgsql`,
	}

	for i, cmd := range commands {
		preview := strings.TrimSpace(cmd)
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		fmt.Printf("[%d/%d] %s\n", i+1, len(commands), preview)

		if _, err := conn.Exec(ctx, cmd); err != nil {
			log.Fatalf("Command failed: %v", err)
		}
	}

	fmt.Println("\nSchema recreated successfully!")
}

func extractHost(connStr string) string {
	at := strings.LastIndex(connStr, "@")
	if at == -1 {
		return "unknown"
	}
	rest := connStr[at+1:]
	if slash := strings.Index(rest, "/"); slash != -1 {
		return rest[:slash]
	}
	return rest
}
