package models

import (
	"time"
)

// GameRecord is a completed game as stored in the games table.
type GameRecord struct {
	ID          int64     `db:"id" json:"id"`
	LaneID      string    `db:"lane_id" json:"lane_id"`
	PlayerName  string    `db:"player_name" json:"player_name"`
	FinalScore  int       `db:"final_score" json:"final_score"`
	ScoringMode string    `db:"scoring_mode" json:"scoring_mode"`
	Frames      []byte    `db:"frames" json:"-"` // JSONB roll history
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

// RollRecord is one delivered ball of a completed game
type RollRecord struct {
	ID         int64 `db:"id" json:"id"`
	GameID     int64 `db:"game_id" json:"game_id"`
	FrameIndex int   `db:"frame_index" json:"frame_index"`
	RollIndex  int   `db:"roll_index" json:"roll_index"`
	Pins       int   `db:"pins" json:"pins"`
	Foul       bool  `db:"foul" json:"foul"`
	Gutter     bool  `db:"gutter" json:"gutter"`
}

// LeaderboardEntry is a row of the best-games query
type LeaderboardEntry struct {
	GameID      int64     `db:"id" json:"game_id"`
	PlayerName  string    `db:"player_name" json:"player_name"`
	FinalScore  int       `db:"final_score" json:"final_score"`
	ScoringMode string    `db:"scoring_mode" json:"scoring_mode"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}
