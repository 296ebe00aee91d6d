package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"uprez-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase ensures a default host settings row exists so a fresh install
// can serve offers before any host has touched the settings endpoint.
func SeedDatabase() {
	hostID := strings.TrimSpace(os.Getenv("DEFAULT_HOST_ID"))
	if hostID == "" {
		hostID = "host_demo"
	}

	var count int64
	DB.Model(&models.HostSettings{}).Where("host_id = ?", hostID).Count(&count)
	if count > 0 {
		log.Println("Host settings already seeded")
		return
	}

	settings := models.DefaultHostSettings(hostID)
	settings.HostName = envOrDefault("DEFAULT_HOST_NAME", "Maria & Tom")
	settings.PMCompanyName = envOrDefault("DEFAULT_PM_NAME", "@luxury_stays")

	if err := DB.Create(&settings).Error; err != nil {
		log.Printf("warning: failed to seed host settings: %v", err)
		return
	}
	log.Printf("Host settings seeded for %s", hostID)
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "uprez_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Info,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.Property{},
		&models.Booking{},
		&models.HostSettings{},
		&models.Offer{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
