package database

type Database struct {
	store        DocumentStore
	projectRepo  *ProjectRepo
	categoryRepo *CategoryRepo
	imageRepo    *ImageRepo
	aboutRepo    *AboutRepo
}

// New initializes a new Database struct with each repository sharing one
// document store. files releases stored uploads when records are deleted.
func New(store DocumentStore, files FileStore) Database {
	return Database{
		store:        store,
		projectRepo:  NewProjectRepo(store, files),
		categoryRepo: NewCategoryRepo(store),
		imageRepo:    NewImageRepo(store, files),
		aboutRepo:    NewAboutRepo(store),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) ImageRepo() *ImageRepo {
	return d.imageRepo
}

func (d Database) AboutRepo() *AboutRepo {
	return d.aboutRepo
}

func (d Database) Close() error {
	return d.store.Close()
}
