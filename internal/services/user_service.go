package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"garage-backend/internal/auth"
	"garage-backend/internal/db"
	"garage-backend/internal/models"
	"garage-backend/internal/permissions"
	"garage-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

const (
	invalidCredentialMessage = "Tên đăng nhập hoặc mật khẩu không đúng"
	defaultLoginLogLimit     = 200
)

// defaultAccounts are created on an empty users table
var defaultAccounts = []struct {
	Username string
	Password string
	Role     string
}{
	{"admin", "admin", models.RoleAdmin},
	{"staff", "staff", models.RoleStaff},
}

type UserService struct {
	DB         *db.Gateway
	Repo       *repositories.UserRepository
	LoginLogs  *repositories.LoginLogRepository
	JWTManager *auth.JWTManager
}

func NewUserService(gw *db.Gateway, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		DB:         gw,
		Repo:       repositories.NewUserRepository(gw.Pool),
		LoginLogs:  repositories.NewLoginLogRepository(gw.Pool),
		JWTManager: jwtManager,
	}
}

// EnsureDefaultUsers seeds the admin and staff accounts when no user exists yet
func (s *UserService) EnsureDefaultUsers(ctx context.Context) error {
	return s.DB.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repositories.NewLockRepository(tx).Acquire(ctx, "users:seed"); err != nil {
			return err
		}

		users := repositories.NewUserRepository(tx)
		count, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, account := range defaultAccounts {
			hash, err := auth.HashPassword(account.Password)
			if err != nil {
				return err
			}
			u := &models.User{Username: account.Username, PasswordHash: hash, Role: account.Role}
			if err := users.Create(ctx, u); err != nil {
				return err
			}
			log.Printf("[Users] Created default %s account %q", account.Role, account.Username)
		}
		return nil
	})
}

// Authenticate checks credentials and issues a token. Unknown users, wrong
// passwords and disabled accounts all get the same message.
func (s *UserService) Authenticate(ctx context.Context, req models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, *auth.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, nil, invalid("username", "Vui lòng nhập tên đăng nhập và mật khẩu")
	}

	user, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if !isNoRows(err) {
			log.Printf("[Users] Failed to look up user %s: %v", username, err)
			return nil, nil, persistence("đăng nhập", err)
		}
		return nil, nil, rejected(ErrInvalidCredential, invalidCredentialMessage)
	}
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		log.Printf("[Users] Rejected login for %s", username)
		return nil, nil, rejected(ErrInvalidCredential, invalidCredentialMessage)
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if _, err := s.LoginLogs.CreateLoginLog(ctx, user.ID, ipAddress, userAgent); err != nil {
		log.Printf("[Users] Failed to record login for %s: %v", username, err)
	}

	session := &auth.Session{UserID: user.ID, Username: user.Username, Role: user.Role}
	log.Printf("[Users] %s signed in as %s", user.Username, user.Role)
	return &models.AuthResponse{
		Token: token,
		User:  user,
		Pages: permissions.PageIDs(user.Role),
	}, session, nil
}

// Logout stamps the open login log; the token itself is discarded by the client
func (s *UserService) Logout(ctx context.Context, session *auth.Session) {
	if session == nil {
		return
	}
	if err := s.LoginLogs.UpdateLogoutTimeByUser(ctx, session.UserID); err != nil {
		log.Printf("[Users] Failed to record logout for %s: %v", session.Username, err)
	}
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalid("username", "Tên đăng nhập không được rỗng")
	}
	if len(req.Password) < 4 {
		return nil, invalid("password", "Mật khẩu phải có ít nhất 4 ký tự")
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleStaff {
		return nil, invalid("role", "Vai trò không hợp lệ")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: hash, Role: req.Role}
	if err := s.Repo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, rejected(ErrDuplicate, fmt.Sprintf("Tên đăng nhập '%s' đã tồn tại", username))
		}
		return nil, persistence("tạo người dùng", err)
	}

	log.Printf("[Users] Created user %s (%s)", user.Username, user.Role)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("user", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy người dùng ID %d", id))
		}
		return nil, persistence("đọc người dùng", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, persistence("đọc danh sách người dùng", err)
	}
	return users, nil
}

// UpdateUser changes role and active flag; the password changes only when given
func (s *UserService) UpdateUser(ctx context.Context, id int, req models.UpdateUserRequest, actor *auth.Session) error {
	if req.Role != models.RoleAdmin && req.Role != models.RoleStaff {
		return invalid("role", "Vai trò không hợp lệ")
	}
	if req.Password != "" && len(req.Password) < 4 {
		return invalid("password", "Mật khẩu phải có ít nhất 4 ký tự")
	}
	if actor != nil && actor.UserID == id && (!req.IsActive || req.Role != models.RoleAdmin) {
		return rejected(ErrInUse, "Không thể tự khóa hoặc hạ quyền tài khoản đang đăng nhập")
	}

	hash := ""
	if req.Password != "" {
		var err error
		if hash, err = auth.HashPassword(req.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	n, err := s.Repo.Update(ctx, id, req.Role, req.IsActive, hash)
	if err != nil {
		return persistence("cập nhật người dùng", err)
	}
	if n == 0 {
		return notFound("user", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy người dùng ID %d", id))
	}

	log.Printf("[Users] Updated user %d: role=%s active=%t", id, req.Role, req.IsActive)
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int, actor *auth.Session) error {
	if actor != nil && actor.UserID == id {
		return rejected(ErrInUse, "Không thể xóa tài khoản đang đăng nhập")
	}

	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return persistence("xóa người dùng", err)
	}
	if n == 0 {
		return notFound("user", strconv.Itoa(id), fmt.Sprintf("Không tìm thấy người dùng ID %d", id))
	}

	log.Printf("[Users] Deleted user %d", id)
	return nil
}

// ListLoginLogs returns recent sign-ins, empty on failure
func (s *UserService) ListLoginLogs(ctx context.Context, limit int) []models.LoginLog {
	if limit <= 0 {
		limit = defaultLoginLogLimit
	}
	logs, err := s.LoginLogs.ListRecent(ctx, limit)
	if err != nil {
		log.Printf("[Users] Failed to list login logs: %v", err)
		return []models.LoginLog{}
	}
	return logs
}
