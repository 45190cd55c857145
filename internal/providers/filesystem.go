package providers

import (
	"context"
	"fmt"

	"github.com/nimblecast/appfs/internal/fs"
	"github.com/nimblecast/appfs/internal/pathname"
	"github.com/nimblecast/appfs/internal/types"
)

// Filesystem exposes the OS filesystem adapter as a tool provider.
type Filesystem struct {
	fs fs.Filesystem
}

// NewFilesystem creates a filesystem provider over the given adapter.
func NewFilesystem(adapter fs.Filesystem) *Filesystem {
	return &Filesystem{fs: adapter}
}

// Definition returns service metadata
func (f *Filesystem) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Folder creation, copy/move/delete, temp and app directory resolution, free-space queries",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"create_folder",
			"copy",
			"move",
			"delete",
			"stat",
			"temp",
			"app_dirs",
			"free_space",
		},
		Tools: []types.Tool{
			{
				ID:          "filesystem.create_folder",
				Name:        "Create Folder",
				Description: "Ensure a directory exists, creating missing ancestors",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Separator-terminated folder path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.copy",
				Name:        "Copy File",
				Description: "Copy a file in fixed-size chunks",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source file path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination file path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.copy_tree",
				Name:        "Copy Folder",
				Description: "Recursively copy a folder",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source folder path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination folder path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.move",
				Name:        "Move",
				Description: "Move a file or folder, falling back to copy+delete across volumes",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.delete_file",
				Name:        "Delete File",
				Description: "Delete a file",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.delete_folder",
				Name:        "Delete Empty Folder",
				Description: "Delete an empty folder",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Folder path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.delete_tree",
				Name:        "Delete Folder Tree",
				Description: "Delete a folder and all its contents",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Folder path", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "filesystem.stat",
				Name:        "Stat",
				Description: "Classify a path and report size and timestamps",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File or folder path", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "filesystem.free_space",
				Name:        "Disk Free Space",
				Description: "Free bytes of the volume holding a path",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Any path on the volume", Required: true},
				},
				Returns: "number",
			},
			{
				ID:          "filesystem.temp_folder",
				Name:        "Temporary Folder",
				Description: "Resolve the platform temp root, optionally appending and creating a subfolder",
				Parameters: []types.Parameter{
					{Name: "append", Type: "string", Description: "Folder segment to append", Required: false},
					{Name: "create", Type: "boolean", Description: "Create the folder", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.temp_filename",
				Name:        "Temporary Filename",
				Description: "Create a uniquely named file in the temp folder",
				Parameters: []types.Parameter{
					{Name: "prefix", Type: "string", Description: "Filename prefix", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.app_temp",
				Name:        "App Temp Folder",
				Description: "Per-process application temp folder, created on first use",
				Parameters:  []types.Parameter{},
				Returns:     "string",
			},
			{
				ID:          "filesystem.app_data",
				Name:        "App Data Folder",
				Description: "Per-user or shared application data folder",
				Parameters: []types.Parameter{
					{Name: "per_user", Type: "boolean", Description: "Per-user scope", Required: false},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.executable",
				Name:        "Executable Path",
				Description: "Path of the running executable",
				Parameters:  []types.Parameter{},
				Returns:     "string",
			},
			{
				ID:          "filesystem.cwd",
				Name:        "Current Directory",
				Description: "Current working directory",
				Parameters:  []types.Parameter{},
				Returns:     "string",
			},
			{
				ID:          "filesystem.is_temp_path",
				Name:        "Is Temporary Path",
				Description: "Whether a path is under a known temporary-directory prefix",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path to test", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a filesystem operation
func (f *Filesystem) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "filesystem.create_folder":
		return f.createFolder(params)
	case "filesystem.copy":
		return f.copy(params)
	case "filesystem.copy_tree":
		return f.copyTree(params)
	case "filesystem.move":
		return f.move(params)
	case "filesystem.delete_file":
		return f.deleteFile(params)
	case "filesystem.delete_folder":
		return f.deleteFolder(params)
	case "filesystem.delete_tree":
		return f.deleteTree(params)
	case "filesystem.stat":
		return f.stat(params)
	case "filesystem.free_space":
		return f.freeSpace(params)
	case "filesystem.temp_folder":
		return f.tempFolder(params)
	case "filesystem.temp_filename":
		return f.tempFilename(params)
	case "filesystem.app_temp":
		return f.appTemp()
	case "filesystem.app_data":
		return f.appData(params)
	case "filesystem.executable":
		return f.executable()
	case "filesystem.cwd":
		return f.cwd()
	case "filesystem.is_temp_path":
		return f.isTempPath(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (f *Filesystem) createFolder(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	if err := f.fs.EnsureFolder(pathname.New(path)); err != nil {
		return failure(fmt.Sprintf("create folder failed: %v", err))
	}
	return success(map[string]interface{}{"created": true, "path": path})
}

func (f *Filesystem) copy(params map[string]interface{}) (*types.Result, error) {
	source, destination, res := sourceDestParams(params)
	if res != nil {
		return res, nil
	}
	if err := f.fs.CopyFile(pathname.New(source), pathname.New(destination)); err != nil {
		return failure(fmt.Sprintf("copy failed: %v", err))
	}
	return success(map[string]interface{}{"copied": true, "source": source, "destination": destination})
}

func (f *Filesystem) copyTree(params map[string]interface{}) (*types.Result, error) {
	source, destination, res := sourceDestParams(params)
	if res != nil {
		return res, nil
	}
	if err := f.fs.CopyFolderRecursive(pathname.NewFolder(source), pathname.NewFolder(destination)); err != nil {
		return failure(fmt.Sprintf("copy tree failed: %v", err))
	}
	return success(map[string]interface{}{"copied": true, "source": source, "destination": destination})
}

func (f *Filesystem) move(params map[string]interface{}) (*types.Result, error) {
	source, destination, res := sourceDestParams(params)
	if res != nil {
		return res, nil
	}
	var err error
	if f.fs.IsFolder(pathname.NewFolder(source)) {
		err = f.fs.MoveFolder(pathname.NewFolder(source), pathname.NewFolder(destination))
	} else {
		err = f.fs.MoveFile(pathname.New(source), pathname.New(destination))
	}
	if err != nil {
		return failure(fmt.Sprintf("move failed: %v", err))
	}
	return success(map[string]interface{}{"moved": true, "source": source, "destination": destination})
}

func (f *Filesystem) deleteFile(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	if err := f.fs.DeleteFile(pathname.New(path)); err != nil {
		return failure(fmt.Sprintf("delete failed: %v", err))
	}
	return success(map[string]interface{}{"deleted": true, "path": path})
}

func (f *Filesystem) deleteFolder(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	if err := f.fs.DeleteEmptyFolder(pathname.NewFolder(path)); err != nil {
		return failure(fmt.Sprintf("delete failed: %v", err))
	}
	return success(map[string]interface{}{"deleted": true, "path": path})
}

func (f *Filesystem) deleteTree(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	if err := f.fs.DeleteFolderAndContents(pathname.NewFolder(path)); err != nil {
		return failure(fmt.Sprintf("delete tree failed: %v", err))
	}
	return success(map[string]interface{}{"deleted": true, "path": path})
}

func (f *Filesystem) stat(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	p := pathname.New(path)

	kind := "absent"
	switch {
	case f.fs.IsFolder(p):
		kind = "folder"
	case f.fs.IsFile(p):
		kind = "file"
	case !f.fs.IsAbsent(p):
		return failure(fmt.Sprintf("stat failed: %s is not reachable", path))
	}

	data := map[string]interface{}{"path": path, "kind": kind}
	if kind != "absent" {
		size, err := f.fs.GetFileSize(p)
		if err != nil {
			return failure(fmt.Sprintf("stat failed: %v", err))
		}
		data["size"] = size
		for name, which := range map[string]fs.TimeKind{
			"created":  fs.TimeCreated,
			"modified": fs.TimeModified,
			"accessed": fs.TimeAccessed,
		} {
			t, err := f.fs.GetFileTime(p, which)
			if err != nil {
				return failure(fmt.Sprintf("stat failed: %v", err))
			}
			data[name] = t.Unix()
		}
	}
	return success(data)
}

func (f *Filesystem) freeSpace(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	free, err := f.fs.GetDiskFreeSpace(pathname.NewFolder(path))
	if err != nil {
		return failure(fmt.Sprintf("free space query failed: %v", err))
	}
	return success(map[string]interface{}{"path": path, "free_bytes": free})
}

func (f *Filesystem) tempFolder(params map[string]interface{}) (*types.Result, error) {
	appendSegment, _ := stringParam(params, "append")
	create := boolParam(params, "create")
	p, err := f.fs.GetTemporaryFolder(create, appendSegment)
	if err != nil {
		return failure(fmt.Sprintf("temp folder resolution failed: %v", err))
	}
	return success(map[string]interface{}{"path": p.String()})
}

func (f *Filesystem) tempFilename(params map[string]interface{}) (*types.Result, error) {
	prefix, _ := stringParam(params, "prefix")
	dir, err := f.fs.GetTemporaryFolder(true, "")
	if err != nil {
		return failure(fmt.Sprintf("temp folder resolution failed: %v", err))
	}
	name, err := f.fs.TempFilename(dir, prefix)
	if err != nil {
		return failure(fmt.Sprintf("temp file creation failed: %v", err))
	}
	return success(map[string]interface{}{"path": name})
}

func (f *Filesystem) appTemp() (*types.Result, error) {
	p, err := f.fs.GetAppTempFolder()
	if err != nil {
		return failure(fmt.Sprintf("app temp folder failed: %v", err))
	}
	return success(map[string]interface{}{"path": p.String()})
}

func (f *Filesystem) appData(params map[string]interface{}) (*types.Result, error) {
	p, err := f.fs.GetAppDataFolder(boolParam(params, "per_user"))
	if err != nil {
		return failure(fmt.Sprintf("app data folder failed: %v", err))
	}
	return success(map[string]interface{}{"path": p.String()})
}

func (f *Filesystem) executable() (*types.Result, error) {
	p, err := f.fs.GetAppPathname()
	if err != nil {
		return failure(fmt.Sprintf("executable path failed: %v", err))
	}
	return success(map[string]interface{}{"path": p.String()})
}

func (f *Filesystem) cwd() (*types.Result, error) {
	p := f.fs.GetCurrentDirectory()
	if p.Empty() {
		return failure("current directory unavailable")
	}
	return success(map[string]interface{}{"path": p.String()})
}

func (f *Filesystem) isTempPath(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	return success(map[string]interface{}{
		"path":      path,
		"temporary": f.fs.IsTemporaryPath(pathname.New(path)),
	})
}

func sourceDestParams(params map[string]interface{}) (string, string, *types.Result) {
	source, ok := stringParam(params, "source")
	if !ok {
		res, _ := failure("source parameter required")
		return "", "", res
	}
	destination, ok := stringParam(params, "destination")
	if !ok {
		res, _ := failure("destination parameter required")
		return "", "", res
	}
	return source, destination, nil
}

func stringParam(params map[string]interface{}, name string) (string, bool) {
	v, ok := params[name].(string)
	return v, ok && v != ""
}

func boolParam(params map[string]interface{}, name string) bool {
	v, _ := params[name].(bool)
	return v
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
