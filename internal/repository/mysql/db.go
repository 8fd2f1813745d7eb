package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config describes how to reach the MySQL server. The root credentials are
// only used to create the database when the regular user cannot reach it.
type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	RootUser     string
	RootPassword string
}

func (c Config) dsn(user, password, dbName string) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.User = user
	cfg.Passwd = password
	cfg.DBName = dbName
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Open connects to the configured database and verifies the connection,
// creating the database with the root credentials if it does not exist yet.
// No handle is leaked when the connection cannot be verified.
func Open(cfg Config) (*sql.DB, error) {
	db, err := open(cfg)
	if err == nil {
		return db, nil
	}

	if bootErr := createDatabase(cfg); bootErr != nil {
		return nil, fmt.Errorf("connect failed (%v), bootstrap failed: %w", err, bootErr)
	}

	db, err = open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect after bootstrap: %w", err)
	}
	return db, nil
}

func open(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.dsn(cfg.User, cfg.Password, cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func createDatabase(cfg Config) error {
	admin, err := sql.Open("mysql", cfg.dsn(cfg.RootUser, cfg.RootPassword, ""))
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer admin.Close()

	if err := admin.Ping(); err != nil {
		return fmt.Errorf("mysql unreachable: %w", err)
	}

	// Identifiers cannot be bound as parameters; the database name comes from
	// trusted configuration, never from a request.
	if _, err := admin.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.Name)); err != nil {
		return fmt.Errorf("create database %s: %w", cfg.Name, err)
	}
	return nil
}
