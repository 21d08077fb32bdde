package repositories

import (
	"context"

	"garage-backend/internal/db"
	"garage-backend/internal/models"
)

type LoginLogRepository struct {
	DB db.DBTX
}

func NewLoginLogRepository(db db.DBTX) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

// CreateLoginLog records a new login event
func (r *LoginLogRepository) CreateLoginLog(ctx context.Context, userID int, ipAddress, userAgent string) (int, error) {
	query := `
		INSERT INTO login_logs (user_id, login_time, ip_address, user_agent)
		VALUES ($1, NOW(), $2, $3)
		RETURNING id
	`

	var logID int
	err := r.DB.QueryRow(ctx, query, userID, ipAddress, userAgent).Scan(&logID)
	if err != nil {
		return 0, err
	}

	return logID, nil
}

// UpdateLogoutTimeByUser records logout for the most recent login of a user
func (r *LoginLogRepository) UpdateLogoutTimeByUser(ctx context.Context, userID int) error {
	query := `
		UPDATE login_logs
		SET logout_time = NOW()
		WHERE id = (
			SELECT id FROM login_logs
			WHERE user_id = $1 AND logout_time IS NULL
			ORDER BY login_time DESC
			LIMIT 1
		)
	`

	_, err := r.DB.Exec(ctx, query, userID)
	return err
}

// ListRecent retrieves the latest login/logout logs with user details
func (r *LoginLogRepository) ListRecent(ctx context.Context, limit int) ([]models.LoginLog, error) {
	query := `
		SELECT ll.id, ll.user_id, u.username, u.role, ll.login_time, ll.logout_time,
		       COALESCE(ll.ip_address, ''), COALESCE(ll.user_agent, '')
		FROM login_logs ll
		JOIN users u ON ll.user_id = u.id
		ORDER BY ll.login_time DESC
		LIMIT $1
	`

	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.LoginLog{}
	for rows.Next() {
		var l models.LoginLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Role, &l.LoginTime, &l.LogoutTime, &l.IPAddress, &l.UserAgent)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
