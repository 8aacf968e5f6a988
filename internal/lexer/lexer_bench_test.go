package lexer

import (
	"strings"
	"testing"
)

// ============================================================================
// Lexer 基准测试
// ============================================================================
//
// 运行基准测试：
//   go test -bench=. -benchmem ./internal/lexer/...
//
// ============================================================================

// 测试源码样本：一个典型的 Java 类
var benchSource = `
package app.controllers;

import java.util.ArrayList;
import java.util.List;

public class UserController extends BaseController {
    private static final int MAX_RETRIES = 3;
    private List<String> names = new ArrayList<>();
    private double ratio = 0.75;

    public UserController(String owner) {
        super(owner);
        this.names.add(owner);
    }

    /* 尝试登录 */
    public boolean login(String username, String password) {
        if (username == null || password.isEmpty()) {
            return false;
        }
        for (int i = 0; i < MAX_RETRIES; i++) {
            int code = authenticate(username, password) & 0xFF;
            if (code != 0) {
                return true;
            }
        }
        return false;
    }

    public static void main(String[] args) {
        UserController c = new UserController("root");
        System.out.println("ok: " + c.login("a", "b"));
    }
}
`

func BenchmarkScanTokens(b *testing.B) {
	b.SetBytes(int64(len(benchSource)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l := New(benchSource, "UserController.java")
		l.ScanTokens()
	}
}

func BenchmarkScanTokensLarge(b *testing.B) {
	large := strings.Repeat(benchSource, 50)
	b.SetBytes(int64(len(large)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l := New(large, "Large.java")
		l.ScanTokens()
	}
}
