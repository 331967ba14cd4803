package utils

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/tamathecxder/randomail"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

var departments = []string{"Engineering", "Finance", "Human Resources", "Marketing", "Operations", "R&D", "Sales", ""}

var positions = []string{"Engineer", "Senior Engineer", "Manager", "Analyst", "Intern", "Director", "Specialist", ""}

// GenerateRandomChineseName 返回随机的姓和名
func GenerateRandomChineseName() (surname string, givenName string) {
	surname = commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1

	for i := 0; i < nameLength; i++ {
		givenName += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, givenName
}

var digits = "0123456789"

// GenerateEmailFromChineseName 用名和姓的拼音加上随机数字生成邮箱，例如 xiaoming.wang42@example.com
func GenerateEmailFromChineseName(surname, givenName, domainName string) string {
	localPart := strings.Join(pinyin.LazyConvert(givenName, nil), "") + "." + strings.Join(pinyin.LazyConvert(surname, nil), "")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		localPart += string(digits[rand.Intn(len(digits))])
	}

	return localPart + "@" + domainName
}

// GenerateRandomEmployee 随机生成一个员工，randomEmail 为 true 时邮箱与姓名无关
func GenerateRandomEmployee(emailDomainName string, randomEmail bool) *domain.Employee {
	surname, givenName := GenerateRandomChineseName()

	employee := &domain.Employee{
		FirstName:  givenName,
		LastName:   surname,
		Department: departments[rand.Intn(len(departments))],
		Position:   positions[rand.Intn(len(positions))],
	}

	if randomEmail {
		employee.Email = randomail.GenerateRandomEmail()
	} else {
		employee.Email = GenerateEmailFromChineseName(surname, givenName, emailDomainName)
	}

	return employee
}
