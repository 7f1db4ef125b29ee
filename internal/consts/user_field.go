package consts

type UserField string

const (
	UserFieldUsername UserField = "username"
)

const (
	RoleStandard      = "standard"
	RoleAdministrator = "administrator"
)

// ValidRole 判断角色取值是否合法。
func ValidRole(role string) bool {
	return role == RoleStandard || role == RoleAdministrator
}
