package repoargs

type RepositoryName string

const (
	UserRepoName           RepositoryName = "user"
	OrderRepoName          RepositoryName = "order"
	TransactionRepoName    RepositoryName = "transaction"
	ProgressRepoName       RepositoryName = "order_progress"
	NotificationRepoName   RepositoryName = "notification"
	BoosterProfileRepoName RepositoryName = "booster_profile"
	CatalogRepoName        RepositoryName = "catalog"
)
