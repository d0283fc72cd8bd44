package repository

import (
	"database/sql"
	"fmt"

	"PosFM/db"
	"PosFM/model"
)

// TrackRepository defines the interface for track catalog operations.
type TrackRepository interface {
	CreateTrack(track *model.Track) (int64, error)
	ListTracks() ([]model.Track, error)
	GetTrackByFileName(fileName string) (*model.Track, error)
	DeleteTrackByFileName(fileName string) error
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	DB *sql.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository() TrackRepository {
	return &mysqlTrackRepository{DB: db.DB}
}

// CreateTrack adds a new track to the catalog. file_name carries a UNIQUE
// constraint, so a duplicate insert fails at the database.
func (r *mysqlTrackRepository) CreateTrack(track *model.Track) (int64, error) {
	query := "INSERT INTO tracks (file_name, title, artist, release_date, sheet_url) VALUES (?, ?, ?, ?, ?)"
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateTrack: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(track.FileName, track.Title, track.Artist, track.ReleaseDate, track.SheetURL)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateTrack: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateTrack: %w", err)
	}
	return id, nil
}

// ListTracks returns the whole catalog ordered by release date, newest first.
func (r *mysqlTrackRepository) ListTracks() ([]model.Track, error) {
	query := `SELECT file_name, title, artist, release_date, sheet_url
	           FROM tracks ORDER BY release_date DESC, file_name ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []model.Track
	for rows.Next() {
		var t model.Track
		if err := rows.Scan(&t.FileName, &t.Title, &t.Artist, &t.ReleaseDate, &t.SheetURL); err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating track rows: %w", err)
	}
	return tracks, nil
}

// GetTrackByFileName retrieves a track by its media file name.
func (r *mysqlTrackRepository) GetTrackByFileName(fileName string) (*model.Track, error) {
	query := "SELECT file_name, title, artist, release_date, sheet_url FROM tracks WHERE file_name = ?"
	row := r.DB.QueryRow(query, fileName)

	track := &model.Track{}
	err := row.Scan(&track.FileName, &track.Title, &track.Artist, &track.ReleaseDate, &track.SheetURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track row for file %s: %w", fileName, err)
	}
	return track, nil
}

// DeleteTrackByFileName removes a catalog entry whose media file disappeared.
func (r *mysqlTrackRepository) DeleteTrackByFileName(fileName string) error {
	stmt, err := r.DB.Prepare("DELETE FROM tracks WHERE file_name = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare statement for DeleteTrackByFileName: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(fileName); err != nil {
		return fmt.Errorf("failed to execute DeleteTrackByFileName: %w", err)
	}
	return nil
}
