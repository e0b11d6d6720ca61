package policy

// Role is a coarse authorization tier assigned to a principal.
type Role string

const (
	// RoleSuperAdmin is the system administrator tier. It is granted the
	// full permission universe by construction, never by enumeration.
	RoleSuperAdmin Role = "super_admin"
	// RoleFarmOwner controls a farm end to end.
	RoleFarmOwner Role = "farm_owner"
	// RoleVeterinarian holds medical and diagnostic permissions.
	RoleVeterinarian Role = "veterinarian"
	// RoleWorker covers day-to-day farm operations.
	RoleWorker Role = "worker"
	// RoleGuest is read-only.
	RoleGuest Role = "guest"
)

// Permission is a fine-grained capability identifier checked against a
// role's granted set.
type Permission string

const (
	PermFarmCreate      Permission = "farm:create"
	PermFarmRead        Permission = "farm:read"
	PermFarmUpdate      Permission = "farm:update"
	PermFarmDelete      Permission = "farm:delete"
	PermFarmInviteUsers Permission = "farm:invite_users"

	PermAnimalCreate Permission = "animal:create"
	PermAnimalRead   Permission = "animal:read"
	PermAnimalUpdate Permission = "animal:update"
	PermAnimalDelete Permission = "animal:delete"

	PermDiagnosisCreate    Permission = "diagnosis:create"
	PermDiagnosisRead      Permission = "diagnosis:read"
	PermDiagnosisUpdate    Permission = "diagnosis:update"
	PermTreatmentCreate    Permission = "treatment:create"
	PermTreatmentRead      Permission = "treatment:read"
	PermPrescriptionCreate Permission = "prescription:create"

	PermReproductionCreate Permission = "reproduction:create"
	PermReproductionRead   Permission = "reproduction:read"
	PermReproductionUpdate Permission = "reproduction:update"

	PermInventoryCreate Permission = "inventory:create"
	PermInventoryRead   Permission = "inventory:read"
	PermInventoryUpdate Permission = "inventory:update"
	PermInventoryDelete Permission = "inventory:delete"

	PermReportCreate Permission = "report:create"
	PermReportRead   Permission = "report:read"
	PermReportExport Permission = "report:export"

	PermUserInvite Permission = "user:invite"
	PermUserRead   Permission = "user:read"
	PermUserUpdate Permission = "user:update"
	PermUserDelete Permission = "user:delete"

	PermSystemSettings Permission = "system:settings"
	PermSystemLogs     Permission = "system:logs"
)

// All lists every permission in registration order. Bit positions in role
// masks follow this order.
var All = []Permission{
	PermFarmCreate, PermFarmRead, PermFarmUpdate, PermFarmDelete, PermFarmInviteUsers,
	PermAnimalCreate, PermAnimalRead, PermAnimalUpdate, PermAnimalDelete,
	PermDiagnosisCreate, PermDiagnosisRead, PermDiagnosisUpdate,
	PermTreatmentCreate, PermTreatmentRead, PermPrescriptionCreate,
	PermReproductionCreate, PermReproductionRead, PermReproductionUpdate,
	PermInventoryCreate, PermInventoryRead, PermInventoryUpdate, PermInventoryDelete,
	PermReportCreate, PermReportRead, PermReportExport,
	PermUserInvite, PermUserRead, PermUserUpdate, PermUserDelete,
	PermSystemSettings, PermSystemLogs,
}

// roleGrants is the static table behind [Default]. RoleSuperAdmin is absent
// on purpose: it receives every registered bit at construction time, so a
// newly added permission applies to it automatically.
var roleGrants = map[Role][]Permission{
	RoleFarmOwner: {
		PermFarmCreate, PermFarmRead, PermFarmUpdate, PermFarmDelete, PermFarmInviteUsers,
		PermAnimalCreate, PermAnimalRead, PermAnimalUpdate, PermAnimalDelete,
		PermDiagnosisRead, PermTreatmentRead,
		PermReproductionCreate, PermReproductionRead, PermReproductionUpdate,
		PermInventoryCreate, PermInventoryRead, PermInventoryUpdate, PermInventoryDelete,
		PermReportCreate, PermReportRead, PermReportExport,
		PermUserInvite, PermUserRead, PermUserUpdate,
	},
	RoleVeterinarian: {
		PermFarmRead,
		PermAnimalRead, PermAnimalUpdate,
		PermDiagnosisCreate, PermDiagnosisRead, PermDiagnosisUpdate,
		PermTreatmentCreate, PermTreatmentRead, PermPrescriptionCreate,
		PermReproductionRead,
		PermInventoryRead,
		PermReportCreate, PermReportRead,
	},
	RoleWorker: {
		PermFarmRead,
		PermAnimalRead, PermAnimalUpdate,
		PermDiagnosisRead, PermTreatmentRead,
		PermReproductionCreate, PermReproductionRead, PermReproductionUpdate,
		PermInventoryRead, PermInventoryUpdate,
		PermReportRead,
	},
	RoleGuest: {
		PermFarmRead, PermAnimalRead, PermDiagnosisRead, PermReportRead,
	},
}
