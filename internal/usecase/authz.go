package usecase

import "paintshop/internal/domain/model"

// リクエストを送った本人（JWTから作る）
type Principal struct {
	UserID int64
	Role   model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

func requireAuthenticated(p Principal) error {
	if p.UserID <= 0 {
		return NewAppError(KindUnauthenticated, "unauthorized")
	}
	return nil
}

func requireAdmin(p Principal) error {
	if err := requireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return NewAppError(KindForbidden, "admin only")
	}
	return nil
}

// 本人かadminだけ
func requireOwnerOrAdmin(p Principal, ownerID int64) error {
	if err := requireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() || p.UserID == ownerID {
		return nil
	}
	return NewAppError(KindForbidden, "forbidden")
}
