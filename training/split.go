package training

import (
	"math/rand"
	"sort"

	"github.com/edupath/careerkit/core"
)

// SplitStudents 把数据集按学生划分训练/测试集。
//
// 所有类别样本数都 ≥2 时做分层抽样（每类按比例进测试集）；
// 否则退化为整体随机划分。seed 固定时划分可复现。
func SplitStudents(ds *Dataset, testFraction float64, seed int64) (train, test []int) {
	n := len(ds.X)
	if n == 0 {
		return nil, nil
	}
	if testFraction <= 0 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	if testFraction >= 1 {
		testFraction = 0.5
	}

	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[core.Domain][]int)
	for i, d := range ds.ClassLabels {
		byClass[d] = append(byClass[d], i)
	}

	stratify := true
	for _, idxs := range byClass {
		if len(idxs) < 2 {
			stratify = false
			break
		}
	}

	if !stratify {
		perm := rng.Perm(n)
		nTest := int(float64(n) * testFraction)
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= n {
			nTest = n - 1
		}
		return perm[nTest:], perm[:nTest]
	}

	// 分层：每类内部洗牌后按比例切分，保证每类至少留一个训练样本
	for _, d := range sortedDomains(byClass) {
		idxs := byClass[d]
		rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })
		nTest := int(float64(len(idxs)) * testFraction)
		if nTest >= len(idxs) {
			nTest = len(idxs) - 1
		}
		test = append(test, idxs[:nTest]...)
		train = append(train, idxs[nTest:]...)
	}
	return train, test
}

// sortedDomains 按 core.AllDomains 的固定顺序返回出现过的类别，保证划分确定性。
func sortedDomains(byClass map[core.Domain][]int) []core.Domain {
	out := make([]core.Domain, 0, len(byClass))
	for _, d := range core.AllDomains() {
		if _, ok := byClass[d]; ok {
			out = append(out, d)
		}
	}
	// 映射表之外的类别兜底追加（正常数据不会出现）；
	// 排序后再追加，保证固定 seed 下划分逐位一致
	var extra []core.Domain
	for d := range byClass {
		found := false
		for _, e := range out {
			if d == e {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, d)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// CVFolds 返回交叉验证折数：min(3, 类别数, 训练样本数/2)；不足 2 折返回 0（跳过）。
func CVFolds(numClasses, numTrain int) int {
	folds := 3
	if numClasses < folds {
		folds = numClasses
	}
	if numTrain/2 < folds {
		folds = numTrain / 2
	}
	if folds < 2 {
		return 0
	}
	return folds
}
