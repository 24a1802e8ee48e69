package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
// 写权限按业务线划分，读权限统一继承 readonly_auditor
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/password", Action: "PUT"},
			},
			Immutable: true,
		},
		{
			Role:     "sales_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/salespeople", Action: "*"},
				{Object: "/admin/salespeople/:id", Action: "*"},
				{Object: "/admin/deals", Action: "*"},
				{Object: "/admin/deals/:id", Action: "*"},
				{Object: "/admin/deals/:id/unwind", Action: "POST"},
				{Object: "/admin/spiffs", Action: "*"},
				{Object: "/admin/spiffs/:id", Action: "*"},
				{Object: "/admin/spiffs/:id/transition", Action: "POST"},
				{Object: "/admin/calculators/:kind", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/finance-managers", Action: "*"},
				{Object: "/admin/finance-managers/:id", Action: "*"},
				{Object: "/admin/deals", Action: "*"},
				{Object: "/admin/deals/:id", Action: "*"},
				{Object: "/admin/deals/:id/unwind", Action: "POST"},
				{Object: "/admin/calculators/:kind", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "payroll_admin",
			Inherits: []string{"sales_manager"},
			Policies: []Policy{
				{Object: "/admin/settings/payroll", Action: "*"},
				{Object: "/admin/settings/report", Action: "*"},
				{Object: "/admin/payroll/exports", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// LookupRoleSeed 按角色名查找预置角色
func LookupRoleSeed(role string) (RoleSeed, bool) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return RoleSeed{}, false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if seedRole, _ := NormalizeRole(seed.Role); seedRole == normalized {
			return seed, true
		}
	}
	return RoleSeed{}, false
}

// IsImmutableRole 预置且不可删除的角色
func IsImmutableRole(role string) bool {
	seed, ok := LookupRoleSeed(role)
	return ok && seed.Immutable
}

func (seed RoleSeed) grants(object, action string) bool {
	for _, policy := range seed.Policies {
		if NormalizeObject(policy.Object) == object && NormalizeAction(policy.Action) == action {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 写入预置角色、继承关系与默认权限，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("create builtin role %s failed: %w", seed.Role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link %s to %s failed: %w", role, parentRole, err)
			}
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return ErrActionRequired
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
