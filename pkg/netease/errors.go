package netease

import "fmt"

// APIError 接口返回的业务错误（code != 200）或非 200 的 HTTP 状态
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("netease: error %d: %s", e.Code, e.Message)
}

// Is 让 errors.Is 按错误码比较
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ErrPlaylistDetail 歌单详情缺少 trackIds
var ErrPlaylistDetail = fmt.Errorf("netease: failed to get playlist detail")
