package mocks

//go:generate mockery --name RecordStore --srcpkg github.com/aevon-lab/aevon-consumption/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name RecordWriter --srcpkg github.com/aevon-lab/aevon-consumption/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
