package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/gridsnake/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createHighScoreTableSQL = `
CREATE TABLE IF NOT EXISTS HighScore (
    ID INTEGER PRIMARY KEY CHECK (ID = 1),
    Score INTEGER NOT NULL,
    UpdatedAt TIMESTAMP
);
`

const createGamesTableSQL = `
CREATE TABLE IF NOT EXISTS Games (
    ID INTEGER PRIMARY KEY AUTOINCREMENT,
    Score INTEGER NOT NULL,
    Length INTEGER NOT NULL,
    Reason TEXT,
    EndedAt TIMESTAMP
);
`

const createGamesIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_games_ended ON Games (EndedAt);
`

// Store 保存最高分和历史对局
type Store struct {
	db *sql.DB
}

func executeSQL(db *sql.DB, sqlStatement string) error {
	_, err := db.Exec(sqlStatement)
	if err != nil {
		return fmt.Errorf("error executing SQL statement: %s: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createHighScoreTableSQL, createGamesTableSQL, createGamesIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Open 打开数据库文件并建表
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite 只允许一个写连接
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetHighScore 读取最高分，没有记录时为0
func (s *Store) GetHighScore() (int, error) {
	var score int
	err := s.db.QueryRow("SELECT Score FROM HighScore WHERE ID = 1").Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	return score, nil
}

func (s *Store) SetHighScore(score int) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO HighScore (ID, Score, UpdatedAt) VALUES (1, ?, ?)", score, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	return nil
}

// RecordGame 写入一局的结果
func (s *Store) RecordGame(rec structs.GameRecord) error {
	if rec.EndedAt == 0 {
		rec.EndedAt = time.Now().Unix()
	}
	_, err := s.db.Exec("INSERT INTO Games (Score, Length, Reason, EndedAt) VALUES (?, ?, ?, ?)",
		rec.Score, rec.Length, rec.Reason, rec.EndedAt)
	if err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

// RecentGames 按结束时间倒序返回最近的对局
func (s *Store) RecentGames(limit int) ([]structs.GameRecord, error) {
	rows, err := s.db.Query("SELECT ID, Score, Length, Reason, EndedAt FROM Games ORDER BY EndedAt DESC, ID DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []structs.GameRecord
	for rows.Next() {
		var rec structs.GameRecord
		if err := rows.Scan(&rec.ID, &rec.Score, &rec.Length, &rec.Reason, &rec.EndedAt); err != nil {
			return nil, err
		}
		games = append(games, rec)
	}
	return games, rows.Err()
}
